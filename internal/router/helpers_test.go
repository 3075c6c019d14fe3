package router

import "strconv"

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// tamper flips one character inside the signature segment.
func tamper(token string) string {
	b := []byte(token)
	i := len(b) - 10
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
