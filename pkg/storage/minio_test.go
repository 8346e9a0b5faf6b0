package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestObjectKeyTenantNamespace(t *testing.T) {
	tenantID := uuid.New()

	key := objectKey(tenantID, "espresso-beans.jpg")
	if !strings.HasPrefix(key, tenantID.String()+"/") {
		t.Fatalf("key %q not namespaced under tenant %s", key, tenantID)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("key %q lost the file extension", key)
	}
}

func TestObjectKeyUniquePerUpload(t *testing.T) {
	tenantID := uuid.New()

	a := objectKey(tenantID, "photo.png")
	b := objectKey(tenantID, "photo.png")
	if a == b {
		t.Fatalf("same filename produced identical keys: %s", a)
	}
}

func TestObjectKeyNoExtension(t *testing.T) {
	tenantID := uuid.New()

	key := objectKey(tenantID, "receipt")
	if strings.Contains(key, ".") {
		t.Fatalf("extensionless filename must yield extensionless key, got %s", key)
	}
}

func TestPublicURL(t *testing.T) {
	s := &ObjectStorage{config: Config{
		Bucket:    "product-images",
		PublicURL: "https://cdn.pos.example.com",
	}}

	got := s.PublicURL("tenant-a/abc123.webp")
	want := "https://cdn.pos.example.com/product-images/tenant-a/abc123.webp"
	if got != want {
		t.Fatalf("PublicURL = %s, want %s", got, want)
	}
}
