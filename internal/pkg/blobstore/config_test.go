package blobstore

import (
	"testing"
)

func TestLoadConfig_RequiresCredentials(t *testing.T) {
	t.Setenv("S3_ACCESS_KEY_ID", "")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_BUCKET_NAME", "bucket")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without access key")
	}

	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_BUCKET_NAME", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without bucket name")
	}
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		key  string
		want string
	}{
		{
			name: "public base url wins",
			cfg:  Config{PublicBaseURL: "https://cdn.example", EndpointURL: "https://s3.example", BucketName: "imgs", Region: "us-west-001"},
			key:  "uploads/a.png",
			want: "https://cdn.example/uploads/a.png",
		},
		{
			name: "custom endpoint is path style",
			cfg:  Config{EndpointURL: "https://s3.example/", BucketName: "imgs", Region: "us-west-001"},
			key:  "uploads/a.png",
			want: "https://s3.example/imgs/uploads/a.png",
		},
		{
			name: "aws virtual host default",
			cfg:  Config{BucketName: "imgs", Region: "eu-central-1"},
			key:  "uploads/a.png",
			want: "https://imgs.s3.eu-central-1.amazonaws.com/uploads/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ObjectURL(tt.key); got != tt.want {
				t.Fatalf("ObjectURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
