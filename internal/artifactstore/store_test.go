package artifactstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	getErr  error
	putErr  error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func TestParseURI(t *testing.T) {
	b, k, err := ParseURI("s3://models/severity/v1/model.json")
	require.NoError(t, err)
	assert.Equal(t, "models", b)
	assert.Equal(t, "severity/v1/model.json", k)

	for _, bad := range []string{"model.json", "s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := ParseURI(bad)
		assert.ErrorIs(t, err, ErrBadURI, bad)
	}
}

func TestIsURI(t *testing.T) {
	assert.True(t, IsURI("s3://b/k"))
	assert.False(t, IsURI("/tmp/model.json"))
}

func TestStore_PutGet(t *testing.T) {
	f := &fakeS3{objects: map[string][]byte{}}
	s := &Store{client: f}
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "s3://models/model.json", []byte(`{"version":1}`)))

	got, err := s.Get(ctx, "s3://models/model.json")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	_, err = s.Get(ctx, "s3://models/missing.json")
	assert.Error(t, err)
}

func TestStore_Errors(t *testing.T) {
	boom := errors.New("boom")
	s := &Store{client: &fakeS3{getErr: boom, putErr: boom}}
	ctx := context.Background()

	_, err := s.Get(ctx, "s3://b/k")
	assert.ErrorIs(t, err, boom)

	err = s.Put(ctx, "s3://b/k", nil)
	assert.ErrorIs(t, err, boom)

	_, err = s.Get(ctx, "not-an-uri")
	assert.ErrorIs(t, err, ErrBadURI)
}

func TestNew_UsesEndpointAndCredentials(t *testing.T) {
	origLoad, origNew := loadDefaultConfig, newS3Client
	t.Cleanup(func() { loadDefaultConfig, newS3Client = origLoad, origNew })

	var gotOpts s3.Options
	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		return &fakeS3{}
	}

	s, err := New(context.Background(), Options{
		Region:       "us-east-1",
		BaseEndpoint: "http://localhost:9000",
		AccessKey:    "minio",
		SecretKey:    "minio123",
	})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "http://localhost:9000", aws.ToString(gotOpts.BaseEndpoint))
	assert.True(t, gotOpts.UsePathStyle)
}

func TestNew_ConfigError(t *testing.T) {
	orig := loadDefaultConfig
	t.Cleanup(func() { loadDefaultConfig = orig })

	loadDefaultConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}
