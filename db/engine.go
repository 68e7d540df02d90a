package db

import (
	"sync"

	"github.com/quarrydb/quarry/sql"
)

// Engine executes parsed statements against its catalog. One Engine is
// shared by all sessions of a process; statement execution within a
// session is strictly sequential.
type Engine struct {
	catalog *Catalog
}

func NewEngine() *Engine {
	return &Engine{catalog: NewCatalog()}
}

// Catalog exposes the engine's catalog to the snapshot layer.
func (engine *Engine) Catalog() *Catalog {
	return engine.catalog
}

// Execute parses and runs a single statement outside any session. The
// returned error, when non-nil, is always a *core.QueryError.
func (engine *Engine) Execute(query string) (*Result, error) {
	statement, err := sql.Parse(query)
	if err != nil {
		return nil, err
	}
	return engine.execute(statement, nil)
}

// Session is one client's view of the engine. Statements of a session
// run one at a time; each completes before the next begins.
type Session struct {
	engine *Engine
	id     string
	mu     sync.Mutex
}

// Session creates a session with the given identifier. The identifier
// only serves logging and diagnostics at the transport layer.
func (engine *Engine) Session(id string) *Session {
	return &Session{engine: engine, id: id}
}

func (session *Session) ID() string {
	return session.id
}

// Execute runs one SQL command string.
func (session *Session) Execute(query string) (*Result, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	statement, err := sql.Parse(query)
	if err != nil {
		return nil, err
	}
	return session.engine.execute(statement, nil)
}

// ExecuteMany parses the command template once and applies it to every
// parameter tuple, binding $n references positionally. A parameterized
// INSERT template is executed as one logical statement: either every
// tuple's row is inserted or none is.
func (session *Session) ExecuteMany(template string, parameterRows [][]string) (*Result, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	statement, err := sql.Parse(template)
	if err != nil {
		return nil, err
	}

	if insert, ok := statement.(sql.InsertStatement); ok {
		return session.engine.executeInsertBatch(insert, parameterRows)
	}

	var last *Result
	for _, params := range parameterRows {
		last, err = session.engine.execute(statement, params)
		if err != nil {
			return nil, err
		}
	}
	return last, nil
}

// execute dispatches a parsed statement. params carries bound parameter
// text for $n references, nil for plain statements.
func (engine *Engine) execute(statement sql.Statement, params []string) (*Result, error) {
	switch statement.Type() {
	case sql.CreateSchemaStatementType:
		return engine.executeCreateSchema(statement.(sql.CreateSchemaStatement))
	case sql.DropSchemaStatementType:
		return engine.executeDropSchema(statement.(sql.DropSchemaStatement))
	case sql.CreateTableStatementType:
		return engine.executeCreateTable(statement.(sql.CreateTableStatement))
	case sql.DropTableStatementType:
		return engine.executeDropTable(statement.(sql.DropTableStatement))
	case sql.InsertStatementType:
		return engine.executeInsert(statement.(sql.InsertStatement), params)
	case sql.SelectStatementType:
		return engine.executeSelect(statement.(sql.SelectStatement))
	case sql.UpdateStatementType:
		return engine.executeUpdate(statement.(sql.UpdateStatement), params)
	case sql.DeleteStatementType:
		return engine.executeDelete(statement.(sql.DeleteStatement))
	default:
		return nil, errUnsupportedStatement
	}
}
