// Package viz provides a live terminal view of a running world.
//
// The package implements a Bubble Tea model that steps the simulation in
// real time and renders it on a Braille pixel canvas: spheres as circles,
// boxes as projected wireframes, next to a panel with the aggregate
// energies and momenta and a sleep indicator per body.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the world and restart
//	←/→   - Rotate the view around the vertical axis
//	+/-   - Zoom
//	↑/↓   - Pan vertically
package viz
