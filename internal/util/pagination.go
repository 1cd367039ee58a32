package util

// Window turns a 1-based page and a requested size into an offset/limit
// pair, clamping the size to 1..100 and defaulting it to 10.
func Window(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	from = (page - 1) * size
	return from, size
}
