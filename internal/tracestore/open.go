package tracestore

import (
	"github.com/vango-dev/vango-react/internal/config"
	"github.com/vango-dev/vango-react/internal/errors"
)

// Open returns the Store described by tc, or nil when the sink is "none".
func Open(tc config.TraceConfig) (Store, error) {
	f, err := ParseFormat(tc.Format)
	if err != nil {
		return nil, err
	}
	switch tc.Sink {
	case config.SinkNone, "":
		return nil, nil
	case config.SinkFile:
		return NewFileStore(tc.Dir, f)
	case config.SinkS3:
		client := NewS3Client(tc.S3.Region, tc.S3.Endpoint)
		return NewS3Store(client, tc.S3.Bucket, tc.S3.Prefix, f), nil
	}
	return nil, errors.New("R051").WithDetail("unknown trace sink " + tc.Sink)
}
