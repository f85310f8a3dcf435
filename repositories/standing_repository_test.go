package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCaptured = errors.New("query captured")

// captureExecutor records the query a repository method builds and aborts
// before any database work happens.
type captureExecutor struct {
	query string
	args  []interface{}
}

func (c *captureExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	c.query = query
	c.args = args
	return nil, errCaptured
}

func (c *captureExecutor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	c.query = query
	c.args = args
	return nil, errCaptured
}

func (c *captureExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	c.query = query
	c.args = args
	return &sql.Row{}
}

func TestListByTournamentRankedOrdersWithinGroups(t *testing.T) {
	exec := &captureExecutor{}
	repo := NewPostgresStandingRepository(nil)

	_, err := repo.ListByTournament(context.Background(), exec, 7, true)
	require.ErrorIs(t, err, errCaptured)

	// Rows must come back grouped first so multi-group tournaments never
	// interleave their group tables.
	assert.Contains(t, exec.query,
		"ORDER BY tt.group_label ASC, tt.points DESC, tt.goal_difference DESC, tt.goals_for DESC, t.name ASC")
	assert.Equal(t, []interface{}{7}, exec.args)
}

func TestListByTournamentUnrankedOrdersByGroupAndName(t *testing.T) {
	exec := &captureExecutor{}
	repo := NewPostgresStandingRepository(nil)

	_, err := repo.ListByTournament(context.Background(), exec, 7, false)
	require.ErrorIs(t, err, errCaptured)
	assert.Contains(t, exec.query, "ORDER BY tt.group_label ASC, t.name ASC")
}
