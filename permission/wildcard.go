// Package permission resolves an identity's permission and role codes from
// a pluggable data provider and evaluates required codes against them with
// wildcard matching.
package permission

import "strings"

// Matches reports whether value satisfies pattern. A pattern without '*'
// requires exact equality; '*' matches zero or more characters.
func Matches(pattern, value string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == value
	}

	m, n := len(value), len(pattern)
	dp := make([][]bool, m+1)
	for i := range dp {
		dp[i] = make([]bool, n+1)
	}
	dp[0][0] = true
	for j := 1; j <= n; j++ {
		if pattern[j-1] != '*' {
			break
		}
		dp[0][j] = true
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if pattern[j-1] == '*' {
				dp[i][j] = dp[i][j-1] || dp[i-1][j]
			} else {
				dp[i][j] = value[i-1] == pattern[j-1] && dp[i-1][j-1]
			}
		}
	}
	return dp[m][n]
}

// ListMatches reports whether any owned code satisfies the required code.
// The owned codes are the patterns: holding "user.*" grants "user.add".
func ListMatches(owned []string, required string) bool {
	for _, code := range owned {
		if Matches(code, required) {
			return true
		}
	}
	return false
}
