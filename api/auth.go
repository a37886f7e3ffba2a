// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package api

import (
	"crypto/subtle"
	"slices"

	"github.com/pkg/errors"
)

// RoleAdmin is the role required to use the API.
const RoleAdmin = "admin"

// ErrAuthFailed indicates the presented token is not known.
var ErrAuthFailed = errors.New("authentication failed")

// ClientInfo holds metadata about an authenticated client.
type ClientInfo struct {
	Name  string
	Roles []string
}

// HasRole reports whether the client has the role.
func (c *ClientInfo) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Authenticator validates the bearer token presented with a request.
type Authenticator interface {
	Authenticate(token string) (*ClientInfo, error)
}

// Token is a static token and the client it identifies.
type Token struct {
	Token string
	Name  string
	Roles []string
}

type authEntry struct {
	token []byte
	info  *ClientInfo
}

// StaticTokenAuth authenticates clients against a fixed token list.
type StaticTokenAuth struct {
	entries []authEntry
}

// NewStaticTokenAuth builds an authenticator from a set of tokens.
//
// Tokens with an empty value are ignored.
func NewStaticTokenAuth(tokens []Token) *StaticTokenAuth {
	a := &StaticTokenAuth{}
	for _, t := range tokens {
		if t.Token == "" {
			continue
		}
		a.entries = append(a.entries, authEntry{
			token: []byte(t.Token),
			info:  &ClientInfo{Name: t.Name, Roles: slices.Clone(t.Roles)},
		})
	}
	return a
}

// Authenticate returns the client identified by the token.
func (s *StaticTokenAuth) Authenticate(token string) (*ClientInfo, error) {
	tb := []byte(token)
	for _, e := range s.entries {
		// constant time to not leak token prefixes
		if subtle.ConstantTimeCompare(tb, e.token) == 1 {
			return e.info, nil
		}
	}
	return nil, ErrAuthFailed
}
