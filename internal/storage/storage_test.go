package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSaveAndDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocal(root, "/media")

	rel, err := store.Save(ctx, DocumentDir, "Deed.PDF", strings.NewReader("contents"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, DocumentDir+"/"))
	assert.True(t, strings.HasSuffix(rel, ".pdf"))
	assert.Equal(t, "/media/"+rel, store.URL(rel))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "contents", string(data))

	require.NoError(t, store.Delete(ctx, rel))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, rel))
}

func TestLocalRejectsTraversal(t *testing.T) {
	store := NewLocal(t.TempDir(), "/media/")
	assert.ErrorIs(t, store.Delete(context.Background(), "../etc/passwd"), ErrInvalidPath)
	assert.ErrorIs(t, store.Delete(context.Background(), ""), ErrInvalidPath)
}

func TestInspectImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	raw := buf.Bytes()

	info, r, err := InspectImage("photo.png", bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "png", Width: 4, Height: 3}, info)

	var replay bytes.Buffer
	_, err = replay.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, raw, replay.Bytes())

	_, _, err = InspectImage("photo.bmp", bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, _, err = InspectImage("photo.jpg", strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
