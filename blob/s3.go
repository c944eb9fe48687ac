// Copyright 2026 The Lanterman Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wotbrew/lanterman/codec"
)

// S3API is the subset of the aws-sdk-go-v2 S3 client S3Store needs, so
// tests can substitute a fake without standing up a real bucket.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store is the object-store scheme driver. Concrete blob store drivers
// are collaborators, not core logic, so this is intentionally a thin
// single-object Put/Get implementation (no multipart upload, no
// table-file packing of small blobs as dolt's go/store/nbs does for its
// own S3 persister) giving the aws-sdk-go-v2 dependency family a concrete,
// exercised home.
type S3Store struct {
	client S3API
	bucket string
}

// NewS3Store builds an S3Store against bucket using client.
func NewS3Store(client S3API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

func (s *S3Store) keyFor(baseURI, key string) (string, error) {
	u, err := url.Parse(baseURI)
	if err != nil {
		return "", fmt.Errorf("blob: invalid s3 URI %q: %w", baseURI, err)
	}
	prefix := u.Path
	if len(prefix) > 0 && prefix[0] == '/' {
		prefix = prefix[1:]
	}
	if prefix == "" {
		return key, nil
	}
	return prefix + "/" + key, nil
}

func (s *S3Store) Persist(ctx context.Context, baseURI string, kind codec.NodeKind, value []byte) (URI, error) {
	key := contentKey(kind, value)
	objectKey, err := s.keyFor(baseURI, key)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(value),
	})
	if err != nil {
		return "", &Error{Op: "persist", Kind: kind, Err: err}
	}
	return URI(fmt.Sprintf("%s/%s", baseURI, key)), nil
}

func (s *S3Store) Reference(_ context.Context, uri URI) (Handle, error) {
	return &s3Handle{store: s, uri: uri}, nil
}

type s3Handle struct {
	store *S3Store
	uri   URI
}

func (h *s3Handle) URI() URI             { return h.uri }
func (h *s3Handle) Kind() codec.NodeKind { return kindFromURI(h.uri) }

func (h *s3Handle) Value(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(string(h.uri))
	if err != nil {
		return nil, &Error{Op: "value", URI: h.uri, Err: err}
	}
	prefix := u.Path
	if len(prefix) > 0 && prefix[0] == '/' {
		prefix = prefix[1:]
	}

	out, err := h.store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(h.store.bucket),
		Key:    aws.String(prefix),
	})
	if err != nil {
		return nil, &Error{Op: "value", URI: h.uri, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &Error{Op: "value", URI: h.uri, Err: err}
	}
	return data, nil
}
