package id3

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie"
	assert "github.com/stretchr/testify/assert"

	"github.com/scanforge/bintape"
)

func pad(value string, length int) []byte {
	result := make([]byte, length)
	copy(result, value)
	return result
}

// makeTrailer builds a 128 byte ID3v1 trailer. The comment block is
// given raw so tests control the v1.1 marker byte exactly.
func makeTrailer(title, artist, album, year string,
	comment_block [30]byte, genre byte) []byte {

	buf := make([]byte, 0, TrailerSize)
	buf = append(buf, "TAG"...)
	buf = append(buf, pad(title, 30)...)
	buf = append(buf, pad(artist, 30)...)
	buf = append(buf, pad(album, 30)...)
	buf = append(buf, pad(year, 4)...)
	buf = append(buf, comment_block[:]...)
	buf = append(buf, genre)
	return buf
}

func v11Comment(comment string, track byte) [30]byte {
	var result [30]byte
	copy(result[:28], comment)
	result[29] = track
	return result
}

func TestTagFileV11(t *testing.T) {
	var comment_block = v11Comment("Remastered", 6)
	trailer := makeTrailer("Sultans Of Swing", "Dire Straits",
		"Communique", "1979", comment_block, 17)

	file, err := bintape.LoadBytes[TagFile]("test.mp3", trailer)
	assert.NoError(t, err)

	title, err := file.Title()
	assert.NoError(t, err)
	assert.Equal(t, "Sultans Of Swing", title)

	artist, err := file.Artist()
	assert.NoError(t, err)
	assert.Equal(t, "Dire Straits", artist)

	comment, err := file.Comment()
	assert.NoError(t, err)
	assert.Equal(t, "Remastered", comment)

	track, pres := file.Track()
	assert.True(t, pres)
	assert.Equal(t, uint64(6), track)

	genre, err := file.Genre()
	assert.NoError(t, err)
	assert.Equal(t, uint64(17), genre)
	assert.Equal(t, "Rock", file.GenreName())

	serialized, err := json.Marshal(file.Registry())
	assert.NoError(t, err)
	goldie.Assert(t, "TestTagFile", serialized)
}

func TestTagFileFullComment(t *testing.T) {
	// Byte 28 of the comment block is non zero, so this is plain
	// ID3v1 with a 30 byte comment and no track.
	var comment_block [30]byte
	copy(comment_block[:], "This comment runs the full len")

	prefix := make([]byte, 100)
	trailer := makeTrailer("Title", "Artist", "Album", "2001",
		comment_block, 80)
	data := append(prefix, trailer...)

	file, err := bintape.LoadBytes[TagFile]("test.mp3", data)
	assert.NoError(t, err)

	comment, err := file.Comment()
	assert.NoError(t, err)
	assert.Equal(t, "This comment runs the full len", comment)

	_, pres := file.Track()
	assert.False(t, pres)

	// The comment was read twice; its offset must be the one
	// recorded before the first read - the jump back landed
	// exactly there.
	offset, err := file.Session().PositionOf("comment")
	assert.NoError(t, err)
	assert.Equal(t, int64(100+97), offset)

	assert.Equal(t, "Unknown (80)", file.GenreName())

	// The comment was bound twice but appears once, in first-bind
	// order with the rest of the fields.
	assert.Equal(t,
		[]string{"tag", "title", "artist", "album", "year", "comment", "genre"},
		file.Registry().Names())
}

func TestTagFileBadMarker(t *testing.T) {
	trailer := makeTrailer("Title", "Artist", "Album", "2001",
		[30]byte{}, 0)
	copy(trailer, "TAR")

	_, err := bintape.LoadBytes[TagFile]("test.mp3", trailer)

	var mismatch *bintape.LiteralMismatchError
	assert.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "TAG", mismatch.Expected)
	assert.Equal(t, "TAR", mismatch.Actual)
}

func TestTagFileShortBuffer(t *testing.T) {
	_, err := bintape.LoadBytes[TagFile]("test.mp3", []byte("TAG"))
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	registry := bintape.NewShapeRegistry()
	Register(registry)

	var comment_block = v11Comment("Hi", 1)
	trailer := makeTrailer("T", "A", "B", "1999", comment_block, 0)

	obj, err := registry.LoadBytes("id3", "test.mp3", trailer)
	assert.NoError(t, err)

	value, pres := obj.Registry().ValueOf("title")
	assert.True(t, pres)
	assert.Equal(t, "T", value)
}
