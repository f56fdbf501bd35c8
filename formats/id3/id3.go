// Package id3 parses the ID3v1 and ID3v1.1 trailer found in the last
// 128 bytes of an MP3 file.
package id3

import (
	"fmt"

	"github.com/scanforge/bintape"
)

const TrailerSize = 128

// TagFile is the result shape for an ID3v1 trailer. Fields are
// resolved by name against the parse registry after loading:
//
//	file, err := bintape.Load[TagFile]("song.mp3")
//	title, err := file.Title()
type TagFile struct {
	bintape.BaseFile
}

func (self *TagFile) Parse() error {
	session := self.Session()

	if session.Len() < TrailerSize {
		return fmt.Errorf(
			"Buffer of %d bytes cannot hold an ID3v1 trailer",
			session.Len())
	}

	err := session.Jump(session.Len() - TrailerSize)
	if err != nil {
		return err
	}

	if _, err := session.Expect("tag", "TAG"); err != nil {
		return err
	}
	if _, err := session.FixedString("title", 30); err != nil {
		return err
	}
	if _, err := session.FixedString("artist", 30); err != nil {
		return err
	}
	if _, err := session.FixedString("album", 30); err != nil {
		return err
	}
	if _, err := session.FixedString("year", 4); err != nil {
		return err
	}

	// ID3v1.1 steals the last two comment bytes for a track
	// number: a zero marker at byte 28 followed by a non zero
	// track. Read the short comment first, then decide.
	if _, err := session.FixedString("comment", 28); err != nil {
		return err
	}

	marker, err := session.Uint8("")
	if err != nil {
		return err
	}

	if marker == 0 {
		if _, err := session.Uint8("track"); err != nil {
			return err
		}
	} else {
		// Plain ID3v1: the comment spans the full 30 bytes.
		// Rewind to where the comment started and take it whole.
		start, err := session.PositionOf("comment")
		if err != nil {
			return err
		}
		if err := session.Jump(start); err != nil {
			return err
		}
		if _, err := session.FixedString("comment", 30); err != nil {
			return err
		}
	}

	if _, err := session.Uint8("genre"); err != nil {
		return err
	}

	return nil
}

func (self *TagFile) Title() (string, error) {
	return self.StringField("title")
}

func (self *TagFile) Artist() (string, error) {
	return self.StringField("artist")
}

func (self *TagFile) Album() (string, error) {
	return self.StringField("album")
}

func (self *TagFile) Year() (string, error) {
	return self.StringField("year")
}

func (self *TagFile) Comment() (string, error) {
	return self.StringField("comment")
}

// Track is only present for ID3v1.1 trailers.
func (self *TagFile) Track() (uint64, bool) {
	value, pres := self.Session().ValueOf("track")
	if !pres {
		return 0, false
	}

	track, ok := value.(uint64)
	return track, ok
}

func (self *TagFile) Genre() (uint64, error) {
	return self.UintField("genre")
}

// GenreName resolves the genre byte against the standard ID3v1 genre
// table.
func (self *TagFile) GenreName() string {
	genre, err := self.Genre()
	if err != nil {
		return ""
	}
	return LookupGenre(genre)
}

// Register exposes the trailer shape to runtime loading.
func Register(registry *bintape.ShapeRegistry) {
	registry.Register("id3", func() bintape.Shape {
		return &TagFile{}
	})
}
