package records

// KeyGreater reports whether the first k bytes of a sort after those of b.
// Bytes compare unsigned and the comparison stops at a NUL shared by both,
// so records that agree up to their terminator are equal. Bytes past the
// end of a short record read as NUL.
func KeyGreater(a, b Record, k int) bool {
	for i := 0; i < k; i++ {
		var ca, cb byte
		if i < len(a) {
			ca = a[i]
		}
		if i < len(b) {
			cb = b[i]
		}

		if ca != cb {
			return ca > cb
		}

		if ca == 0 {
			return false
		}
	}

	return false
}

// CheckOrder reports whether arr is non-decreasing by its comparison
// prefix. It does not modify arr.
func CheckOrder(arr *Array) bool {
	recs := arr.Records
	for i := 0; i+1 < len(recs); i++ {
		if arr.Greater(recs[i], recs[i+1]) {
			return false
		}
	}

	return true
}
