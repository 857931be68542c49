package core

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiffRecord_Latest(t *testing.T) {
	t1 := time.Date(2021, 8, 13, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	_, ok := (&DiffRecord{}).Latest()
	assert.False(t, ok)

	var nilRecord *DiffRecord
	_, ok = nilRecord.Latest()
	assert.False(t, ok)

	latest, ok := (&DiffRecord{Uploads: []time.Time{t2, t1}}).Latest()
	assert.True(t, ok)
	assert.Equal(t, t2, latest)
}

func TestCommentRecord_LatestBy(t *testing.T) {
	base := time.Date(2021, 8, 16, 8, 0, 0, 0, time.UTC)
	rec := &CommentRecord{Comments: []Comment{
		{Author: "jenkins", Timestamp: base},
		{Author: "sally", Timestamp: base.Add(2 * time.Hour)},
		{Author: "jenkins", Timestamp: base.Add(time.Hour)},
	}}

	latest, ok := rec.LatestBy("jenkins")
	assert.True(t, ok)
	assert.Equal(t, base.Add(time.Hour), latest)

	_, ok = rec.LatestBy("rupert")
	assert.False(t, ok)
}

func TestError_Is(t *testing.T) {
	inner := NewError(KindNotFound, "trigger build", "http://ci/job/x", errors.New("404"))
	outer := NewError(KindDispatch, "dispatch", "http://rb/r/1/", inner)
	wrapped := fmt.Errorf("cycle failed: %w", outer)

	assert.ErrorIs(t, wrapped, ErrDispatch)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrAuth)
	assert.Contains(t, outer.Error(), "dispatch error during dispatch (http://rb/r/1/)")
}

func TestCycleReport_AddItem(t *testing.T) {
	r := &CycleReport{}
	r.AddItem(ItemResult{ReviewID: 1, Status: ItemDispatched})
	r.AddItem(ItemResult{ReviewID: 2, Status: ItemSkipped})
	r.AddItem(ItemResult{ReviewID: 3, Status: ItemFailed, Err: errors.New("boom")})

	assert.Equal(t, 1, r.ReviewsDispatched)
	assert.Len(t, r.Items, 3)
	assert.Equal(t, []string{"boom"}, r.ErrorMessages())
}

func TestBuildOutcome_Validate(t *testing.T) {
	o := &BuildOutcome{Review: "12", Result: " success ", BuildURL: "http://ci/job/x/3/"}
	assert.NoError(t, o.Validate())
	assert.Equal(t, ResultSuccess, o.Result)
	assert.Equal(t, "http://ci/job/x/3/", o.BuildName)

	assert.Error(t, (&BuildOutcome{Result: "SUCCESS"}).Validate())
	assert.Error(t, (&BuildOutcome{Review: "1"}).Validate())
	assert.Error(t, (&BuildOutcome{Review: "1", Result: "GREEN"}).Validate())
}
