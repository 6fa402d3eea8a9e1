package seed

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	vserr "github.com/vango-dev/vstore/internal/errors"
	"github.com/vango-dev/vstore/pkg/store"
)

type fakeS3 struct {
	objects map[string]string
	calls   []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.calls = append(f.calls, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    string
		want    store.State
		wantErr bool
	}{
		{"json", "seed.json", `{"numberProp": 47, "label": "x", "ratio": 0.5}`, store.State{"numberProp": 47, "label": "x", "ratio": 0.5}, false},
		{"yaml", "seed.yaml", "numberProp: 47\nlabel: x\n", store.State{"numberProp": 47, "label": "x"}, false},
		{"yml", "seed.YML", "on: true\n", store.State{"on": true}, false},
		{"json array", "seed.json", `[1,2]`, nil, true},
		{"bad yaml", "seed.yaml", "a: [", nil, true},
		{"unknown extension", "seed.toml", `a = 1`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.file, []byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Errorf("Decode() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		in          string
		bucket, key string
		wantErr     bool
	}{
		{"s3://b/k.json", "b", "k.json", false},
		{"s3://b/dir/k.yaml", "b", "dir/k.yaml", false},
		{"s3://b", "", "", true},
		{"s3:///k", "", "", true},
		{"https://b/k", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, key, err := ParseS3URL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if bucket != tt.bucket || key != tt.key {
				t.Errorf("got %q %q, want %q %q", bucket, key, tt.bucket, tt.key)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(file, []byte(`{"numberProp": 47}`), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewLoader().Load(context.Background(), file)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got["numberProp"] != 47 {
		t.Errorf("numberProp = %#v, want 47", got["numberProp"])
	}
}

func TestLoadS3(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"seeds/app/seed.yaml": "numberProp: 12\n"}}
	l := NewLoader(WithS3(fake))

	got, err := l.Load(context.Background(), "s3://seeds/app/seed.yaml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got["numberProp"] != 12 {
		t.Errorf("numberProp = %#v", got["numberProp"])
	}
	if want := []string{"seeds/app/seed.yaml"}; !reflect.DeepEqual(fake.calls, want) {
		t.Errorf("calls = %v, want %v", fake.calls, want)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.json")
	if err := os.WriteFile(big, []byte(`{"a":"`+strings.Repeat("x", MaxSize)+`"}`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		loader *Loader
		source string
	}{
		{"missing file", NewLoader(), filepath.Join(dir, "missing.json")},
		{"too large", NewLoader(), big},
		{"no s3 client", NewLoader(), "s3://b/k.json"},
		{"missing object", NewLoader(WithS3(&fakeS3{})), "s3://b/k.json"},
		{"bad s3 url", NewLoader(WithS3(&fakeS3{})), "s3://b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load(context.Background(), tt.source)
			var se *vserr.StoreError
			if !errors.As(err, &se) || se.Code != "C003" {
				t.Errorf("Load() error = %v, want C003", err)
			}
		})
	}
}
