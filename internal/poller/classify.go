package poller

import (
	"time"

	"github.com/sevigo/build-warden/internal/core"
)

// Classify decides whether a review still owes a build. A build is needed when
// the review has at least one diff and the bot has not commented strictly
// after the latest diff upload. The returned version is that upload time and
// is only meaningful for NeedsBuild. It is truncated to the microsecond
// precision the dispatch store keeps.
func Classify(diffs *core.DiffRecord, comments *core.CommentRecord, bot string) (core.Decision, time.Time) {
	latestDiff, ok := diffs.Latest()
	if !ok {
		return core.NoBuild, time.Time{}
	}
	version := latestDiff.Truncate(time.Microsecond)

	lastBotComment, commented := comments.LatestBy(bot)
	if commented && lastBotComment.After(latestDiff) {
		return core.NoBuild, version
	}
	return core.NeedsBuild, version
}
