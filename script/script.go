package script

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"sqt/storage"
	"time"
)

type Script struct {
	statements []Statement
}

func NewScript(statements []Statement) *Script {
	return &Script{statements: statements}
}

func (s *Script) Statements() []Statement {
	return s.statements
}

// Execute runs all statements in order and returns one result per statement. Execution stops at the first failing
// statement, the effects of all previous statements remain.
func (s *Script) Execute(store *storage.Store) ([]*Result, error) {
	sigolo.Debugf("Start script with %d statements", len(s.statements))
	scriptStartTime := time.Now()

	var results []*Result
	for _, statement := range s.statements {
		if sigolo.ShouldLogTrace() {
			sigolo.Tracef("Execute statement %s", statement.String())
		}

		result, err := statement.Execute(store)
		if err != nil {
			return nil, errors.Wrapf(err, "Executing statement '%s' failed", statement.String())
		}
		results = append(results, result)
	}

	sigolo.Debugf("Executed script in %s", time.Since(scriptStartTime))
	return results, nil
}
