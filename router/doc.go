// Package router turns a board description into leaf paths.
//
// Route validates the board, consults the optional cache, builds the
// capacity mesh, derives its edges, resolves every connection's two
// terminals to leaves, then races pather configurations (greedy multiplier
// and negative-capacity penalty factor axes) under a hyper.Supervisor and
// returns the winner's paths alongside the mesh.
//
// Errors:
//
//   - ErrBadInput: malformed board, unknown layer, bad connection.
//   - ErrMeshFailed, ErrPathingFailed: the wrapped solver's Err.
//   - mesh.ErrTerminalNotFound: a terminal fell into no leaf.
package router
