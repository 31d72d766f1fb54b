// Package capmesh routes connections across a layered circuit board by
// carving the board into capacity-bounded regions and searching paths
// through them.
//
// What is capmesh?
//
//	A pipeline of small, step-driven solvers:
//		• geom/     : box helpers over gonum's r2 and rtreego rectangles
//		• solver/   : the StepSolver contract and its Base implementation
//		• mesh/     : recursive quadrant subdivision into capacity mesh nodes
//		• meshgraph/: adjacency view over finished leaves, BFS and components
//		• pather/   : multi-connection capacity A* with pluggable cost models
//		• hyper/    : a supervisor racing parameter combinations of any solver
//		• config/   : JSON tuning file with defaults and validation
//		• cache/    : result cache (in memory or SQLite)
//		• router/   : the end-to-end pipeline: mesh, edges, terminals, paths
//		• cmd/capmesh: command-line front end
//
// Every solver advances one bounded unit of work per Step, so callers may
// interleave, observe progress, or stop any of them at any point.
//
// Quick ex:
//
//	r, _ := router.New(router.WithLogger(logger))
//	res, err := r.Route(ctx, router.Input{
//		Bounds: router.Rect{MaxX: 10, MaxY: 10},
//		Connections: []router.Connection{{
//			Name:   "net1",
//			Points: []router.Point{{X: 1, Y: 1, Layer: "top"}, {X: 9, Y: 9, Layer: "top"}},
//		}},
//	})
package capmesh
