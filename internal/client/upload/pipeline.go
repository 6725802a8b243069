// Package upload implements the profile image pipeline: validate, compress,
// upload to object storage, then link the public URL to the user's profile
// row. Validation and compression run client-side so the stored object is
// always a bounded JPEG.
package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wealthboard/wealthboard/internal/client/feed"
	"github.com/wealthboard/wealthboard/internal/logging"
	"github.com/wealthboard/wealthboard/internal/remote"
)

// Bucket is the object-store bucket for all profile imagery.
const Bucket = "profile-images"

// Purpose selects the target slot on the profile and the size cap applied
// during compression.
type Purpose string

const (
	PurposeAvatar Purpose = "avatar"
	PurposeCover  Purpose = "cover"
)

// Status is the pipeline stage of a running upload.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusValidating  Status = "validating"
	StatusCompressing Status = "compressing"
	StatusUploading   Status = "uploading"
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
)

// ErrMissingUserInfo is returned when the upload would create the user's
// first profile row but the required identity fields are absent.
var ErrMissingUserInfo = errors.New("missing required user information")

// Longest-side caps per purpose. Avatars render small; covers span the page.
const (
	avatarMaxDimension = 512
	coverMaxDimension  = 1600
)

// Progress is delivered to the OnProgress callback at each stage boundary.
type Progress struct {
	Status  Status
	Percent int
}

// Request describes one image upload.
type Request struct {
	Purpose     Purpose
	UserID      string
	Email       string
	DisplayName string
	// ContentType is the declared type; when empty the payload is sniffed.
	ContentType string
	Data        []byte
	OnProgress  func(Progress)
}

// Result reports where the stored image ended up.
type Result struct {
	Path      string
	PublicURL string
}

// Pipeline runs profile image uploads. Safe for concurrent use; each call to
// Upload is independent.
type Pipeline struct {
	store  remote.ObjectStore
	tables remote.Table
	feed   *feed.Client
	logger logging.Logger

	now func() time.Time
}

func NewPipeline(store remote.ObjectStore, tables remote.Table, feedClient *feed.Client, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Pipeline{
		store:  store,
		tables: tables,
		feed:   feedClient,
		logger: logger.With("module", "image_upload"),
		now:    time.Now,
	}
}

// Upload runs the full pipeline. Any stage failure stops the run and is
// returned to the caller; an object already uploaded before a linkage failure
// is left in place (re-running the pipeline writes a fresh path).
func (p *Pipeline) Upload(ctx context.Context, req Request) (*Result, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("upload: user id is required")
	}
	if req.Purpose != PurposeAvatar && req.Purpose != PurposeCover {
		return nil, fmt.Errorf("upload: unknown purpose %q", req.Purpose)
	}

	p.report(req, StatusValidating, 10)
	if err := ValidateImage(req.ContentType, req.Data); err != nil {
		p.fail(ctx, req, err)
		return nil, err
	}

	p.report(req, StatusCompressing, 30)
	compressed, err := compressImage(req.Data, maxDimensionFor(req.Purpose))
	if err != nil {
		p.fail(ctx, req, err)
		return nil, fmt.Errorf("compress image: %w", err)
	}

	p.report(req, StatusUploading, 60)
	path := fmt.Sprintf("%s/%s/%d.jpg", req.Purpose, req.UserID, p.now().UnixNano())
	err = p.store.Upload(ctx, Bucket, path, compressed, remote.UploadOptions{
		ContentType:  "image/jpeg",
		CacheControl: "3600",
		Upsert:       true,
	})
	if err != nil {
		p.fail(ctx, req, err)
		return nil, fmt.Errorf("upload image: %w", err)
	}

	url := p.store.PublicURL(Bucket, path)
	if err := p.linkToProfile(ctx, req, url); err != nil {
		// The stored object is not removed: the profile still points at the
		// previous image and the new object is simply unreferenced.
		p.fail(ctx, req, err)
		return nil, err
	}

	p.report(req, StatusDone, 100)
	p.notifyUploaded(ctx, req)

	return &Result{Path: path, PublicURL: url}, nil
}

// linkToProfile writes the new URL onto the user's profile row, creating the
// row on first upload. Creating requires the identity fields because the
// profiles table has no other source for them.
func (p *Pipeline) linkToProfile(ctx context.Context, req Request, url string) error {
	existing, err := p.tables.MaybeSingle(ctx, "profiles",
		[]remote.Filter{{Column: "user_id", Value: req.UserID}}, "user_id")
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	row := remote.Row{
		"user_id":              req.UserID,
		urlColumn(req.Purpose): url,
	}
	if existing == nil {
		if req.Email == "" || req.DisplayName == "" {
			return ErrMissingUserInfo
		}
		row["email"] = req.Email
		row["display_name"] = req.DisplayName
	}

	if err := p.tables.Upsert(ctx, "profiles", row, "user_id"); err != nil {
		return fmt.Errorf("link image to profile: %w", err)
	}
	return nil
}

// notifyUploaded posts a feed entry about the new image. The feed client is
// fail-soft, so a broken feed never affects the upload result.
func (p *Pipeline) notifyUploaded(ctx context.Context, req Request) {
	if p.feed == nil {
		return
	}
	title := "Profile photo updated"
	if req.Purpose == PurposeCover {
		title = "Cover image updated"
	}
	p.feed.Create(ctx, feed.CreateParams{
		UserID:  req.UserID,
		Title:   title,
		Message: "Your new image is live on your profile.",
		Kind:    feed.KindSuccess,
	})
}

func (p *Pipeline) report(req Request, status Status, percent int) {
	if req.OnProgress != nil {
		req.OnProgress(Progress{Status: status, Percent: percent})
	}
}

func (p *Pipeline) fail(ctx context.Context, req Request, err error) {
	p.logger.Warn(ctx, "image upload failed", "purpose", string(req.Purpose), "error", err)
	p.report(req, StatusFailed, 0)
}

func maxDimensionFor(purpose Purpose) int {
	if purpose == PurposeCover {
		return coverMaxDimension
	}
	return avatarMaxDimension
}

func urlColumn(purpose Purpose) string {
	if purpose == PurposeCover {
		return "cover_url"
	}
	return "avatar_url"
}
