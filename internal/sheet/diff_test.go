package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendsi/googoal/internal/frame"
)

func planFrames() (*frame.Frame, *frame.Frame) {
	current := frame.New("name", "email", "score")
	current.AppendRow("alice", map[string]any{"email": "alice@example.com", "score": int64(1)})
	current.AppendRow("bob", map[string]any{"email": "bob@example.com", "score": nil})
	current.AppendRow("carol", map[string]any{"email": "carol@example.com", "score": int64(3)})

	desired := frame.New("name", "email", "score")
	desired.AppendRow("alice", map[string]any{"email": "alice@example.com", "score": int64(10)})
	desired.AppendRow("bob", map[string]any{"email": "bob@example.com", "score": int64(2)})
	desired.AppendRow("dave", map[string]any{"email": "dave@example.com", "score": int64(4)})
	return current, desired
}

func TestPlanUpdate_Overwrite(t *testing.T) {
	current, desired := planFrames()

	plan, err := PlanUpdate(current, desired, nil, true)
	require.NoError(t, err)

	assert.ElementsMatch(t, []CellChange{
		{Index: "alice", Column: "score", Value: int64(10)},
		{Index: "bob", Column: "score", Value: int64(2)},
	}, plan.Updates)
	assert.Equal(t, []string{"dave"}, plan.Add)
	assert.Equal(t, []string{"carol"}, plan.Remove)
	assert.False(t, plan.Empty())
}

func TestPlanUpdate_AugmentFillsOnlyEmptyCells(t *testing.T) {
	current, desired := planFrames()

	plan, err := PlanUpdate(current, desired, nil, false)
	require.NoError(t, err)

	// alice already has a score, so only bob's empty cell is filled.
	assert.Equal(t, []CellChange{
		{Index: "bob", Column: "score", Value: int64(2)},
	}, plan.Updates)
	assert.Equal(t, []string{"dave"}, plan.Add)
	assert.Empty(t, plan.Remove)
}

func TestPlanUpdate_ColumnSubset(t *testing.T) {
	current, desired := planFrames()
	desired.Set("alice", "email", "other@example.com")

	plan, err := PlanUpdate(current, desired, []string{"score"}, true)
	require.NoError(t, err)

	for _, ch := range plan.Updates {
		assert.Equal(t, "score", ch.Column)
	}
}

func TestPlanUpdate_UnknownColumn(t *testing.T) {
	current, desired := planFrames()

	_, err := PlanUpdate(current, desired, []string{"missing"}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "missing" not present`)
}

func TestPlanUpdate_ColumnMismatch(t *testing.T) {
	current := frame.New("name", "email")
	desired := frame.New("name", "score")

	_, err := PlanUpdate(current, desired, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "score")
}

func TestPlanUpdate_DuplicateDesiredIndex(t *testing.T) {
	current, _ := planFrames()
	desired := frame.New("name", "email", "score")
	desired.AppendRow("alice", map[string]any{})
	desired.AppendRow("alice", map[string]any{})

	_, err := PlanUpdate(current, desired, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "updating frame is not unique")
}

func TestPlanUpdate_DuplicateSheetIndex(t *testing.T) {
	current := frame.New("name", "email", "score")
	current.AppendRow("alice", map[string]any{})
	current.AppendRow("alice", map[string]any{})
	_, desired := planFrames()

	_, err := PlanUpdate(current, desired, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet is not unique")
}

func TestPlanUpdate_NoChanges(t *testing.T) {
	current, _ := planFrames()
	plan, err := PlanUpdate(current, current, nil, true)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestEqualCell(t *testing.T) {
	assert.True(t, equalCell(nil, nil))
	assert.True(t, equalCell(int64(3), float64(3)))
	assert.True(t, equalCell(3, int64(3)))
	assert.True(t, equalCell("a", "a"))
	assert.False(t, equalCell(nil, ""))
	assert.False(t, equalCell(int64(3), int64(4)))
	assert.False(t, equalCell("3", int64(3)))
}
