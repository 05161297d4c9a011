package wav

func nullTermStr(b []byte) string {
	return string(b[:clen(b)])
}

func clen(num []byte) int {
	for i := range num {
		if num[i] == 0 {
			return i
		}
	}

	return len(num)
}
