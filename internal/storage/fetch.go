package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

var (
	ErrTooLarge       = errors.New("asset exceeds size limit")
	ErrUnsupportedRef = errors.New("unsupported asset reference")
)

// Fetcher loads asset bytes referenced by:
// - s3://bucket/key (AWS SDK v2 download manager)
// - http(s):// URLs
// - file://path or plain filesystem paths, when local files are allowed
type Fetcher struct {
	s3         *s3.Client
	downloader *manager.Downloader
	http       *http.Client
	maxBytes   int64
	allowFiles bool
}

type FetcherOption func(*Fetcher)

// WithS3 enables s3:// references.
func WithS3(client *s3.Client) FetcherOption {
	return func(f *Fetcher) {
		f.s3 = client
		f.downloader = manager.NewDownloader(client)
	}
}

func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.http = c }
}

// WithLocalFiles enables file:// and bare path references.
func WithLocalFiles() FetcherOption {
	return func(f *Fetcher) { f.allowFiles = true }
}

// NewFetcher creates a fetcher capped at maxBytes per asset (0 = no cap).
func NewFetcher(maxBytes int64, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{http: http.DefaultClient, maxBytes: maxBytes}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch returns the full content of ref.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	// Strip optional #fragment if present
	if i := strings.Index(ref, "#"); i >= 0 {
		ref = ref[:i]
	}

	switch {
	case strings.HasPrefix(ref, "s3://"):
		return f.fetchS3(ctx, ref)
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return f.fetchHTTP(ctx, ref)
	case f.allowFiles && strings.HasPrefix(ref, "file://"):
		return f.fetchFile(strings.TrimPrefix(ref, "file://"))
	case f.allowFiles && ref != "" && !strings.Contains(ref, "://"):
		return f.fetchFile(ref)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedRef, ref)
}

func (f *Fetcher) tooLarge(n int64) bool { return f.maxBytes > 0 && n > f.maxBytes }

// readCapped reads r, failing once more than maxBytes arrive.
func (f *Fetcher) readCapped(r io.Reader) ([]byte, error) {
	if f.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	if f.tooLarge(resp.ContentLength) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}
	return f.readCapped(resp.Body)
}

// StatusError is a non-200 answer from an HTTP asset origin.
type StatusError struct{ Code int }

func (e *StatusError) Error() string { return fmt.Sprintf("http %d", e.Code) }

// HostFault reports whether err says something about the origin rather than
// the ref: transport failures, throttling and 5xx answers. HTTP origins and
// S3 are judged by the same status codes.
func HostFault(err error) bool {
	if err == nil || errors.Is(err, ErrTooLarge) || errors.Is(err, ErrUnsupportedRef) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return hostStatus(se.Code)
	}
	var re *awshttp.ResponseError
	if errors.As(err, &re) && re.ResponseError != nil && re.Response != nil && re.Response.Response != nil {
		return hostStatus(re.HTTPStatusCode())
	}
	return true
}

func hostStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (f *Fetcher) fetchFile(p string) ([]byte, error) {
	fh, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	if st, err := fh.Stat(); err == nil && f.tooLarge(st.Size()) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, st.Size())
	}
	return f.readCapped(fh)
}

func (f *Fetcher) fetchS3(ctx context.Context, ref string) ([]byte, error) {
	if f.s3 == nil {
		return nil, fmt.Errorf("%w: s3 is not configured", ErrUnsupportedRef)
	}
	bucket, key, err := parseS3URL(ref)
	if err != nil {
		return nil, err
	}

	head, err := f.s3.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("failed to stat s3 object: %w", err)
	}
	size := aws.ToInt64(head.ContentLength)
	if f.tooLarge(size) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, size))
	n, err := f.downloader.Download(ctx, buf, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}

	log.Debug().Str("bucket", bucket).Str("key", key).Int64("size", n).Msg("downloaded asset from s3")
	return buf.Bytes(), nil
}
