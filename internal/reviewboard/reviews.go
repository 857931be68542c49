package reviewboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sevigo/build-warden/internal/core"
)

// FetchCandidates lists pending review requests in server order. The
// staleness window is applied by the caller.
func (c *Client) FetchCandidates(ctx context.Context, q core.CandidateQuery) ([]core.ReviewSummary, error) {
	params := url.Values{}
	params.Set("status", "pending")
	params.Set("max-results", strconv.Itoa(pageSize))
	if q.RestrictToUser {
		params.Set("to-users", c.username)
	}
	if q.RepositoryID >= 0 {
		params.Set("repository", strconv.FormatInt(q.RepositoryID, 10))
	}
	reqURL := c.baseURL + "api/review-requests/?" + params.Encode()

	doc, err := c.getXML(ctx, "fetch pending reviews", reqURL)
	if err != nil {
		return nil, err
	}

	reviews := make([]core.ReviewSummary, 0, len(doc.ReviewRequests))
	for _, r := range doc.ReviewRequests {
		reviews = append(reviews, core.ReviewSummary{
			ID:          r.ID,
			LastUpdated: r.LastUpdated.Time,
			Branch:      r.Branch,
		})
	}
	c.logger.Debug("fetched pending reviews", "count", len(reviews), "total", doc.TotalResults)
	return reviews, nil
}

// FetchDiffHistory returns the upload time of every diff revision.
func (c *Client) FetchDiffHistory(ctx context.Context, reviewID int64) (*core.DiffRecord, error) {
	ref := core.NewReviewRef(c.baseURL, reviewID)
	items, err := c.listItems(ctx, "fetch diffs", pagedURL(APIURL(ref.URL, "diffs")), func(d *rsp) []item { return d.Diffs })
	if err != nil {
		return nil, err
	}

	rec := &core.DiffRecord{ReviewID: reviewID}
	for _, it := range items {
		rec.Uploads = append(rec.Uploads, it.Timestamp.Time)
	}
	return rec, nil
}

// FetchComments returns the author and time of every review posted on the request.
func (c *Client) FetchComments(ctx context.Context, reviewID int64) (*core.CommentRecord, error) {
	ref := core.NewReviewRef(c.baseURL, reviewID)
	items, err := c.listItems(ctx, "fetch comments", pagedURL(APIURL(ref.URL, "reviews")), func(d *rsp) []item { return d.Reviews })
	if err != nil {
		return nil, err
	}

	rec := &core.CommentRecord{ReviewID: reviewID}
	for _, it := range items {
		rec.Comments = append(rec.Comments, core.Comment{
			Author:    it.Links.User.title(),
			Timestamp: it.Timestamp.Time,
		})
	}
	return rec, nil
}

// PostAdvisory publishes a plain-text notice on the review.
func (c *Client) PostAdvisory(ctx context.Context, reviewID int64, message string) error {
	return c.PostComment(ctx, core.NewReviewRef(c.baseURL, reviewID), core.ReviewComment{Body: message})
}

// PostComment publishes a top-level review on the request.
func (c *Client) PostComment(ctx context.Context, ref core.ReviewRef, comment core.ReviewComment) error {
	const op = "post comment"
	postURL := APIURL(ref.URL, "reviews")

	form := url.Values{}
	form.Set("body_top", comment.Body)
	form.Set("public", "true")
	form.Set("ship_it", strconv.FormatBool(comment.ShipIt))
	if comment.Markdown {
		form.Set("body_top_text_type", "markdown")
		form.Set("text_type", "markdown")
	}

	resp, err := c.do(ctx, op, http.MethodPost, postURL, form, acceptXML)
	if err != nil {
		c.logger.Error("failed to post comment", "review_url", ref.URL, "error", err)
		return err
	}
	defer drain(resp)

	if err := checkStatus(op, postURL, resp); err != nil {
		c.logger.Error("review board refused comment", "review_url", ref.URL, "status", resp.StatusCode)
		return err
	}
	return nil
}

// Properties returns the review attributes exported to builds.
func (c *Client) Properties(ctx context.Context, ref core.ReviewRef) (*core.ReviewProperties, error) {
	doc, err := c.getXML(ctx, "fetch review", APIURL(ref.URL, ""))
	if err != nil {
		return nil, err
	}
	if doc.ReviewRequest == nil {
		return nil, core.NewError(core.KindParse, "fetch review", ref.URL, errors.New("response has no review_request"))
	}

	req := doc.ReviewRequest
	return &core.ReviewProperties{
		Branch:     orDefault(req.Branch, "master"),
		Repository: orDefault(req.Links.Repository.title(), "unknown"),
		User:       orDefault(req.Links.Submitter.title(), "unknown"),
	}, nil
}

// Diff opens the latest diff revision of the review as a unified patch.
// The caller must close the returned reader.
func (c *Client) Diff(ctx context.Context, ref core.ReviewRef) (io.ReadCloser, error) {
	const op = "download diff"
	doc, err := c.getXML(ctx, "fetch diffs", APIURL(ref.URL, "diffs"))
	if err != nil {
		return nil, err
	}

	revision := doc.TotalResults
	for _, d := range doc.Diffs {
		if d.Revision > revision {
			revision = d.Revision
		}
	}
	if revision == 0 {
		return nil, core.NewError(core.KindNotFound, op, ref.URL, errors.New("review has no diffs"))
	}

	diffURL := APIURL(ref.URL, "diffs/"+strconv.Itoa(revision))
	resp, err := c.do(ctx, op, http.MethodGet, diffURL, nil, acceptPatch)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(op, diffURL, resp); err != nil {
		drain(resp)
		return nil, err
	}
	return resp.Body, nil
}

// Repositories maps repository names to their ids.
func (c *Client) Repositories(ctx context.Context) (map[string]int64, error) {
	items, err := c.listItems(ctx, "fetch repositories", pagedURL(c.baseURL+"api/repositories/"), func(d *rsp) []item { return d.Repositories })
	if err != nil {
		return nil, err
	}
	repos := make(map[string]int64, len(items))
	for _, it := range items {
		repos[it.Name] = it.ID
	}
	return repos, nil
}

// SortedNames returns the repository names ordered case-insensitively.
func SortedNames(repos map[string]int64) []string {
	names := make([]string, 0, len(repos))
	for name := range repos {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a == b {
			return names[i] < names[j]
		}
		return a < b
	})
	return names
}

func pagedURL(u string) string {
	return u + "?max-results=" + strconv.Itoa(pageSize)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
