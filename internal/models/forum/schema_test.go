package forum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The delete semantics live in the DDL, so check the DDL itself: every
// content foreign key must carry ON DELETE CASCADE, not default RESTRICT.
func TestContentForeignKeysCascadeInDDL(t *testing.T) {
	db := newTestDB(t)

	// table -> number of cascading FKs it must declare
	want := map[string]int{
		"questions":      1, // author
		"answers":        2, // question, author
		"comments":       3, // author, question, answer
		"question_votes": 2, // user, question
		"answer_votes":   2, // user, answer
	}

	for table, n := range want {
		var ddl string
		err := db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&ddl).Error
		require.NoError(t, err)
		require.NotEmpty(t, ddl, "missing table %s", table)
		assert.GreaterOrEqual(t, strings.Count(ddl, "ON DELETE CASCADE"), n, "table %s: %s", table, ddl)
	}

	// The category reference stays plain; deleting a category must not take
	// its questions with it.
	var qddl string
	require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'questions'").Scan(&qddl).Error)
	assert.Equal(t, 1, strings.Count(qddl, "ON DELETE CASCADE"), qddl)
}
