package bintape

import "time"

func to_int64(x interface{}) (int64, bool) {
	switch t := x.(type) {
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case int:
		return int64(t), true
	case uint8:
		return int64(t), true
	case int8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case int16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint64:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true

	default:
		return 0, false
	}
}

func to_uint64(x interface{}) (uint64, bool) {
	value, ok := to_int64(x)
	if !ok {
		return 0, false
	}
	return uint64(value), true
}

func to_time(x interface{}) (time.Time, bool) {
	value, ok := x.(time.Time)
	return value, ok
}
