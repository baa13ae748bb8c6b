package domain

// MatchGlob matches s against a Redis-style glob pattern.
//
// Supported syntax:
//   - "*" matches any sequence, including the empty one
//   - "?" matches exactly one byte
//   - "[abc]", "[a-z]" and "[^a]" match one byte from (or outside) a class
//   - "\x" matches x literally
//
// Examples:
//   - "user:*" matches "user:1"
//   - "*:name" matches "user:name"
//   - "h?llo" matches "hello" and "hallo"
//   - "h[^e]llo" matches "hallo" but not "hello"
func MatchGlob(pattern, s string) bool {
	if pattern == "*" {
		return true
	}

	p, i := 0, 0
	// Backtracking point for the most recent "*".
	starP, starI := -1, 0

	for i < len(s) {
		if p < len(pattern) {
			switch pattern[p] {
			case '*':
				for p < len(pattern) && pattern[p] == '*' {
					p++
				}
				if p == len(pattern) {
					return true
				}
				starP, starI = p, i
				continue
			case '?':
				p++
				i++
				continue
			case '[':
				if next, ok := matchClass(pattern, p, s[i]); ok {
					p = next
					i++
					continue
				}
			case '\\':
				if p+1 < len(pattern) {
					if pattern[p+1] == s[i] {
						p += 2
						i++
						continue
					}
				} else if s[i] == '\\' {
					p++
					i++
					continue
				}
			default:
				if pattern[p] == s[i] {
					p++
					i++
					continue
				}
			}
		}

		if starP < 0 {
			return false
		}
		starI++
		p, i = starP, starI
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

// matchClass matches c against the class starting at pattern[start] == '['.
// It returns the index just past the class and whether c matched.
func matchClass(pattern string, start int, c byte) (int, bool) {
	p := start + 1
	negate := false
	if p < len(pattern) && pattern[p] == '^' {
		negate = true
		p++
	}

	matched := false
	for p < len(pattern) && pattern[p] != ']' {
		switch {
		case pattern[p] == '\\' && p+1 < len(pattern):
			p++
			if pattern[p] == c {
				matched = true
			}
			p++
		case p+2 < len(pattern) && pattern[p+1] == '-' && pattern[p+2] != ']':
			lo, hi := pattern[p], pattern[p+2]
			if lo > hi {
				lo, hi = hi, lo
			}
			if c >= lo && c <= hi {
				matched = true
			}
			p += 3
		default:
			if pattern[p] == c {
				matched = true
			}
			p++
		}
	}
	if p < len(pattern) {
		p++ // closing ']'
	}

	if negate {
		matched = !matched
	}
	return p, matched
}
