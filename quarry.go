package quarry

import "github.com/quarrydb/quarry/db"

// Instance is one running engine with its catalog. All sessions share
// the catalog; the instance lives until the process lets it go.
type Instance struct {
	engine *db.Engine
}

// Open creates an empty engine instance.
func Open() *Instance {
	return &Instance{engine: db.NewEngine()}
}

// Engine exposes the underlying engine, for snapshotting and embedding.
func (instance *Instance) Engine() *db.Engine {
	return instance.engine
}

// Session creates a client session. The id is used for diagnostics
// only; it does not scope any state.
func (instance *Instance) Session(id string) *db.Session {
	return instance.engine.Session(id)
}
