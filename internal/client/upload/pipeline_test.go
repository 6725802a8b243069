package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wealthboard/wealthboard/internal/client/feed"
	"github.com/wealthboard/wealthboard/internal/remote"
)

// ---- fakes ----

type storedObject struct {
	bucket string
	path   string
	data   []byte
	opts   remote.UploadOptions
}

type fakeStore struct {
	uploads   []storedObject
	uploadErr error
	removed   [][]string
}

func (f *fakeStore) Upload(ctx context.Context, bucket, path string, data []byte, opts remote.UploadOptions) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, storedObject{bucket: bucket, path: path, data: data, opts: opts})
	return nil
}

func (f *fakeStore) PublicURL(bucket, path string) string {
	return "https://cdn.example.com/" + bucket + "/" + path
}

func (f *fakeStore) Remove(ctx context.Context, bucket string, paths []string) error {
	f.removed = append(f.removed, paths)
	return nil
}

type fakeTables struct {
	profileExists bool
	lookupErr     error
	upsertErr     error
	upserted      []remote.Row
}

func (f *fakeTables) MaybeSingle(ctx context.Context, collection string, filters []remote.Filter, columns ...string) (remote.Row, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if !f.profileExists {
		return nil, nil
	}
	return remote.Row{"user_id": filters[0].Value}, nil
}

func (f *fakeTables) Select(ctx context.Context, collection string, filters []remote.Filter, orderBy string, desc bool, limit int) ([]remote.Row, error) {
	return nil, nil
}

func (f *fakeTables) Upsert(ctx context.Context, collection string, row remote.Row, conflictColumn string) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, row)
	return nil
}

func (f *fakeTables) Delete(ctx context.Context, collection string, filters []remote.Filter) error {
	return nil
}

type fakeRPC struct {
	calls []string
}

func (f *fakeRPC) Invoke(ctx context.Context, name string, params map[string]any) (any, error) {
	f.calls = append(f.calls, name)
	return "n-1", nil
}

// ---- helpers ----

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newPipeline(store *fakeStore, tables *fakeTables, rpc *fakeRPC) *Pipeline {
	var feedClient *feed.Client
	if rpc != nil {
		feedClient = feed.NewClient(rpc, tables, nil)
	}
	return NewPipeline(store, tables, feedClient, nil)
}

// ---- tests ----

func TestUpload_HappyPath(t *testing.T) {
	store := &fakeStore{}
	tables := &fakeTables{profileExists: true}
	rpc := &fakeRPC{}
	p := newPipeline(store, tables, rpc)

	var progress []Progress
	res, err := p.Upload(context.Background(), Request{
		Purpose:     PurposeAvatar,
		UserID:      "u-1",
		ContentType: "image/png",
		Data:        encodePNG(t, 64, 64),
		OnProgress:  func(pr Progress) { progress = append(progress, pr) },
	})
	require.NoError(t, err)

	require.Len(t, store.uploads, 1)
	obj := store.uploads[0]
	require.Equal(t, Bucket, obj.bucket)
	require.Regexp(t, regexp.MustCompile(`^avatar/u-1/\d+\.jpg$`), obj.path)
	require.Equal(t, remote.UploadOptions{ContentType: "image/jpeg", CacheControl: "3600", Upsert: true}, obj.opts)

	// The stored payload is a decodable JPEG regardless of input format.
	_, err = jpeg.Decode(bytes.NewReader(obj.data))
	require.NoError(t, err)

	require.Equal(t, "https://cdn.example.com/"+Bucket+"/"+obj.path, res.PublicURL)

	require.Len(t, tables.upserted, 1)
	require.Equal(t, res.PublicURL, tables.upserted[0]["avatar_url"])
	require.NotContains(t, tables.upserted[0], "email", "existing profile keeps its identity fields")

	require.Equal(t, []Progress{
		{Status: StatusValidating, Percent: 10},
		{Status: StatusCompressing, Percent: 30},
		{Status: StatusUploading, Percent: 60},
		{Status: StatusDone, Percent: 100},
	}, progress)

	require.Equal(t, []string{"create_notification"}, rpc.calls)
}

func TestUpload_ResizedToCap(t *testing.T) {
	store := &fakeStore{}
	p := newPipeline(store, &fakeTables{profileExists: true}, nil)

	_, err := p.Upload(context.Background(), Request{
		Purpose:     PurposeAvatar,
		UserID:      "u-1",
		ContentType: "image/png",
		Data:        encodePNG(t, 1024, 512),
	})
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(store.uploads[0].data))
	require.NoError(t, err)
	require.Equal(t, 512, img.Bounds().Dx())
	require.Equal(t, 256, img.Bounds().Dy(), "aspect ratio preserved")
}

func TestUpload_OversizedRejectedBeforeStore(t *testing.T) {
	store := &fakeStore{}
	p := newPipeline(store, &fakeTables{}, nil)

	var progress []Progress
	_, err := p.Upload(context.Background(), Request{
		Purpose:     PurposeAvatar,
		UserID:      "u-1",
		ContentType: "image/jpeg",
		Data:        make([]byte, MaxImageSize+1),
		OnProgress:  func(pr Progress) { progress = append(progress, pr) },
	})
	require.Error(t, err)
	require.Empty(t, store.uploads, "oversized file must not reach the store")
	require.Equal(t, StatusFailed, progress[len(progress)-1].Status)
}

func TestUpload_UndecodableImageFailsCompression(t *testing.T) {
	store := &fakeStore{}
	p := newPipeline(store, &fakeTables{}, nil)

	_, err := p.Upload(context.Background(), Request{
		Purpose:     PurposeAvatar,
		UserID:      "u-1",
		ContentType: "image/png",
		Data:        []byte("not an image"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "compress image")
	require.Empty(t, store.uploads)
}

func TestUpload_FirstUploadWithoutIdentityFails(t *testing.T) {
	store := &fakeStore{}
	tables := &fakeTables{profileExists: false}
	p := newPipeline(store, tables, nil)

	_, err := p.Upload(context.Background(), Request{
		Purpose:     PurposeAvatar,
		UserID:      "u-1",
		ContentType: "image/png",
		Data:        encodePNG(t, 8, 8),
	})
	require.ErrorIs(t, err, ErrMissingUserInfo)
	require.Empty(t, tables.upserted)
	require.Empty(t, store.removed, "uploaded object stays in place")
}

func TestUpload_FirstUploadCreatesProfileRow(t *testing.T) {
	tables := &fakeTables{profileExists: false}
	p := newPipeline(&fakeStore{}, tables, nil)

	_, err := p.Upload(context.Background(), Request{
		Purpose:     PurposeCover,
		UserID:      "u-1",
		Email:       "a@example.com",
		DisplayName: "Alice",
		ContentType: "image/png",
		Data:        encodePNG(t, 8, 8),
	})
	require.NoError(t, err)

	require.Len(t, tables.upserted, 1)
	row := tables.upserted[0]
	require.Equal(t, "a@example.com", row["email"])
	require.Equal(t, "Alice", row["display_name"])
	require.Contains(t, row, "cover_url")
}

func TestUpload_LinkageFailureKeepsObject(t *testing.T) {
	store := &fakeStore{}
	tables := &fakeTables{profileExists: true, upsertErr: errors.New("row level security")}
	p := newPipeline(store, tables, nil)

	_, err := p.Upload(context.Background(), Request{
		Purpose:     PurposeAvatar,
		UserID:      "u-1",
		ContentType: "image/png",
		Data:        encodePNG(t, 8, 8),
	})
	require.Error(t, err)
	require.Len(t, store.uploads, 1, "object was uploaded before linkage failed")
	require.Empty(t, store.removed, "no compensating delete")
}

func TestUpload_StoreFailureSurfaces(t *testing.T) {
	store := &fakeStore{uploadErr: errors.New("bucket not found")}
	tables := &fakeTables{}
	p := newPipeline(store, tables, nil)

	_, err := p.Upload(context.Background(), Request{
		Purpose:     PurposeAvatar,
		UserID:      "u-1",
		ContentType: "image/png",
		Data:        encodePNG(t, 8, 8),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "upload image")
	require.Empty(t, tables.upserted)
}

func TestUpload_UnknownPurposeRejected(t *testing.T) {
	p := newPipeline(&fakeStore{}, &fakeTables{}, nil)

	_, err := p.Upload(context.Background(), Request{
		Purpose: "banner",
		UserID:  "u-1",
		Data:    encodePNG(t, 8, 8),
	})
	require.Error(t, err)
}
