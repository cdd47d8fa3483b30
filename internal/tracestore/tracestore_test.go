package tracestore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-react/internal/config"
	"github.com/vango-dev/vango-react/pkg/react"
)

func sampleTrace() *Trace {
	rec := NewRecorder(0)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, e := range []react.Event{
		{Kind: react.EventMount, Instance: 1, Component: "Counter"},
		{Kind: react.EventCellCreated, Instance: 1, Component: "Counter", Key: "count"},
		{Kind: react.EventRender, Instance: 1, Component: "Counter"},
		{Kind: react.EventCellFreed, Instance: 1, Component: "Counter", Key: "count"},
		{Kind: react.EventUnmount, Instance: 1, Component: "Counter"},
	} {
		e.Time = at
		rec.Observe(e)
	}
	return rec.Snapshot(react.Stats{TokensIssued: 2, TokensFreed: 2})
}

func TestRecorderLimit(t *testing.T) {
	rec := NewRecorder(2)
	rec.Observe(react.Event{Kind: react.EventMount})
	rec.Observe(react.Event{Kind: react.EventRender})
	rec.Observe(react.Event{Kind: react.EventUnmount})

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, react.EventRender, events[0].Kind)
	assert.Equal(t, react.EventUnmount, events[1].Kind)

	tr := rec.Snapshot(react.Stats{})
	assert.Equal(t, 1, tr.Dropped)
	assert.NotEmpty(t, tr.ID)

	rec.Reset()
	assert.Zero(t, rec.Len())
}

func TestRecorderAsObserver(t *testing.T) {
	var _ react.Observer = NewRecorder(0)
}

func TestEncodeDecode(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			tr := sampleTrace()
			data, err := tr.Bytes(f)
			require.NoError(t, err)
			assert.Contains(t, string(data), "cell_created")

			got, err := Decode(bytes.NewReader(data), f)
			require.NoError(t, err)
			assert.Equal(t, tr.ID, got.ID)
			require.Len(t, got.Events, len(tr.Events))
			assert.Equal(t, react.EventCellFreed, got.Events[3].Kind)
			assert.Equal(t, "count", got.Events[3].Key)
			assert.True(t, tr.Events[0].Time.Equal(got.Events[0].Time))
			assert.Equal(t, uint64(2), got.Stats.TokensFreed)
			assert.Equal(t, 1, got.Count(react.EventMount))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.ErrorContains(t, err, "R051")
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "traces")
	store, err := NewFileStore(dir, FormatYAML)
	require.NoError(t, err)

	tr := sampleTrace()
	key, err := store.Put(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, tr.ID+".yaml", key)

	_, err = os.Stat(filepath.Join(dir, key))
	require.NoError(t, err)

	keys, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Len(t, got.Events, 5)

	_, err = store.Get(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreCanceled(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), FormatJSON)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Put(ctx, sampleTrace())
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeS3 struct {
	objects map[string][]byte
	meta    map[string]map[string]string
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects: map[string][]byte{},
		meta:    map[string]map[string]string{},
		types:   map[string]string{},
	}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.meta[key] = in.Metadata
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Store(t *testing.T) {
	client := newFakeS3()
	store := NewS3Store(client, "bucket", "traces/", FormatJSON)

	tr := sampleTrace()
	key, err := store.Put(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, "traces/"+tr.ID+".json", key)

	full := "bucket/" + key
	assert.Equal(t, "application/json", client.types[full])
	assert.Equal(t, tr.ID, client.meta[full]["trace-id"])
	assert.Equal(t, "5", client.meta[full]["event-count"])

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)

	_, err = store.Get(context.Background(), "traces/nope.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	tc := config.New().Trace

	store, err := Open(tc)
	require.NoError(t, err)
	assert.Nil(t, store)

	tc.Sink = config.SinkFile
	tc.Dir = t.TempDir()
	store, err = Open(tc)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	tc.Sink = config.SinkS3
	tc.S3.Bucket = "b"
	store, err = Open(tc)
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, store)

	tc.Format = "xml"
	_, err = Open(tc)
	assert.Error(t, err)
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	_, err := envCredentials().Retrieve(context.Background())
	assert.Error(t, err)

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials().Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id", creds.AccessKeyID)
}
