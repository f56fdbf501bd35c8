// Package zipfmt parses zip container headers: the local file header
// at the front of each member and the end-of-central-directory record
// that indexes the archive.
package zipfmt

import (
	"encoding/binary"
	"time"

	"github.com/scanforge/bintape"
)

const (
	localHeaderSignature = "PK\x03\x04"
	centralSignature     = "PK\x01\x02"
	eocdSignature        = "PK\x05\x06"

	// Fixed size of the end record when the archive carries no
	// comment.
	eocdSize = 22
)

// LocalFileHeader is the result shape for a single member's header,
// cursor left at the start of the member data.
type LocalFileHeader struct {
	bintape.BaseFile
}

func (self *LocalFileHeader) Parse() error {
	session := self.Session()
	session.SetByteOrder(binary.LittleEndian)

	if _, err := session.Expect("signature", localHeaderSignature); err != nil {
		return err
	}
	if _, err := session.Uint16("version"); err != nil {
		return err
	}
	if _, err := session.Uint16("flags"); err != nil {
		return err
	}
	if _, err := session.Uint16("method"); err != nil {
		return err
	}
	if _, err := ReadDosDateTime(session, "modified"); err != nil {
		return err
	}
	if _, err := session.Uint32("crc32"); err != nil {
		return err
	}
	if _, err := session.Uint32("compressed_size"); err != nil {
		return err
	}
	if _, err := session.Uint32("uncompressed_size"); err != nil {
		return err
	}

	name_len, err := session.Uint16("")
	if err != nil {
		return err
	}
	extra_len, err := session.Uint16("")
	if err != nil {
		return err
	}

	if _, err := session.FixedString("name", int(name_len)); err != nil {
		return err
	}
	if err := session.Skip(int64(extra_len)); err != nil {
		return err
	}

	// Member data begins here.
	session.BindValue("data_offset", session.Pos())

	return nil
}

func (self *LocalFileHeader) Name() (string, error) {
	return self.StringField("name")
}

func (self *LocalFileHeader) Method() (uint64, error) {
	return self.UintField("method")
}

func (self *LocalFileHeader) Modified() (time.Time, error) {
	return self.TimeField("modified")
}

func (self *LocalFileHeader) CompressedSize() (uint64, error) {
	return self.UintField("compressed_size")
}

func (self *LocalFileHeader) DataOffset() (int64, error) {
	return self.IntField("data_offset")
}

// ArchiveFile is the result shape for the archive index: the end
// record plus a peek into the central directory for the first
// member's name. The peek leaves the cursor inside the end record.
type ArchiveFile struct {
	bintape.BaseFile
}

func (self *ArchiveFile) Parse() error {
	session := self.Session()
	session.SetByteOrder(binary.LittleEndian)

	// Comment-free archives end with the fixed size record.
	if err := session.Jump(session.Len() - eocdSize); err != nil {
		return err
	}

	if _, err := session.Expect("eocd_signature", eocdSignature); err != nil {
		return err
	}
	if _, err := session.Uint16("disk"); err != nil {
		return err
	}
	if _, err := session.Uint16("cd_disk"); err != nil {
		return err
	}
	if _, err := session.Uint16("disk_entries"); err != nil {
		return err
	}

	total_entries, err := session.Uint16("total_entries")
	if err != nil {
		return err
	}
	if _, err := session.Uint32("cd_size"); err != nil {
		return err
	}

	cd_offset, err := session.Uint32("cd_offset")
	if err != nil {
		return err
	}
	if _, err := session.Uint16("comment_len"); err != nil {
		return err
	}

	if total_entries == 0 {
		return nil
	}

	// Divert to the central directory for the first member's name,
	// restoring the cursor to the end record afterwards.
	return session.Peek(int64(cd_offset)-session.Pos(),
		func(session *bintape.Session) error {
			if _, err := session.Expect("cd_signature", centralSignature); err != nil {
				return err
			}

			// Fixed central header fields up to the name length.
			if err := session.Skip(24); err != nil {
				return err
			}
			name_len, err := session.Uint16("")
			if err != nil {
				return err
			}

			// Remaining fixed fields between name length and name.
			if err := session.Skip(16); err != nil {
				return err
			}
			_, err = session.FixedString("first_name", int(name_len))
			return err
		})
}

func (self *ArchiveFile) TotalEntries() (uint64, error) {
	return self.UintField("total_entries")
}

func (self *ArchiveFile) CentralDirectoryOffset() (uint64, error) {
	return self.UintField("cd_offset")
}

func (self *ArchiveFile) FirstName() (string, error) {
	return self.StringField("first_name")
}

// Register exposes both shapes to runtime loading.
func Register(registry *bintape.ShapeRegistry) {
	registry.Register("zip-local", func() bintape.Shape {
		return &LocalFileHeader{}
	})
	registry.Register("zip-archive", func() bintape.Shape {
		return &ArchiveFile{}
	})
}
