package zipfmt

import (
	"time"

	"github.com/scanforge/bintape"
)

// DecodeDosDateTime unpacks the two 16 bit MS-DOS fields used by zip
// and friends. Low bits hold the finer grained unit; seconds are
// stored halved and years count from 1980.
func DecodeDosDateTime(date uint16, time_val uint16) time.Time {
	sec := int(time_val&0x1F) * 2
	min := int((time_val >> 5) & 0x3F)
	hour := int((time_val >> 11) & 0x1F)

	day := int(date & 0x1F)
	month := time.Month((date >> 5) & 0x0F)
	year := int((date>>9)&0x7F) + 1980

	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

// ReadDosDateTime composes two unsigned 16 bit reads (time first,
// then date, as stored on disk) and binds the decoded timestamp at
// the offset of the first read.
func ReadDosDateTime(session *bintape.Session, name string) (time.Time, error) {
	start := session.Pos()

	time_val, err := session.Uint16("")
	if err != nil {
		return time.Time{}, err
	}

	date, err := session.Uint16("")
	if err != nil {
		return time.Time{}, err
	}

	result := DecodeDosDateTime(uint16(date), uint16(time_val))
	session.BindValueAt(name, result, start)
	return result, nil
}
