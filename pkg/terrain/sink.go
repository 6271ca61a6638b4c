package terrain

import "github.com/chazu/loam/pkg/mesh"

// MeshSink receives chunk meshes as they are published. Calls happen on
// the goroutine running Tick, after the mesh has been swapped into its
// chunk, so a sink never sees a mesh that is still being written. Meshes
// are immutable once published.
type MeshSink interface {
	MeshReady(c Coord, m *mesh.Mesh)
	MeshEvicted(c Coord)
}

// Sinks fans mesh events out to several sinks in order.
type Sinks []MeshSink

// MeshReady forwards to every sink.
func (s Sinks) MeshReady(c Coord, m *mesh.Mesh) {
	for _, sink := range s {
		sink.MeshReady(c, m)
	}
}

// MeshEvicted forwards to every sink.
func (s Sinks) MeshEvicted(c Coord) {
	for _, sink := range s {
		sink.MeshEvicted(c)
	}
}

type nopSink struct{}

func (nopSink) MeshReady(Coord, *mesh.Mesh) {}
func (nopSink) MeshEvicted(Coord)           {}
