package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	key := "receipts/2024/01/abc.png"

	require.NoError(t, store.Put(ctx, key, strings.NewReader("data"), &PutOptions{ContentType: "image/png"}))

	content, err := os.ReadFile(filepath.Join(root, "receipts", "2024", "01", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
	assert.Equal(t, "/uploads/receipts/2024/01/abc.png", store.URL(key))

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	err = store.Put(context.Background(), "../outside.png", strings.NewReader("x"), nil)
	assert.Error(t, err)
}
