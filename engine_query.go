package tokit

import (
	"context"

	"github.com/tokit-dev/tokit/session"
)

// TokenValueList returns the live token values of identity, optionally
// filtered by device type. Tokens parked on a termination sentinel are not
// live and are excluded.
func (e *Engine) TokenValueList(ctx context.Context, identity, device string) ([]string, error) {
	terminals, err := e.Terminals(ctx, identity, device)
	if err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(terminals))
	for _, t := range terminals {
		tokens = append(tokens, t.TokenValue)
	}
	return tokens, nil
}

// Terminals returns identity's live terminal records, optionally filtered
// by device type. The result is a copy; mutating it does not touch the
// stored session.
func (e *Engine) Terminals(ctx context.Context, identity, device string) ([]session.Terminal, error) {
	if identity == "" {
		return nil, ErrInvalidArgument
	}
	sess, err := e.sessions.Get(ctx, e.sessions.AccountKey(e.loginType, identity))
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	return sess.TerminalsByDevice(device), nil
}

// TerminalByToken returns the terminal record behind token, or nil when
// the token is not live.
func (e *Engine) TerminalByToken(ctx context.Context, token string) (*session.Terminal, error) {
	identity, err := e.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	sess, err := e.sessions.Get(ctx, e.sessions.AccountKey(e.loginType, identity))
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	return sess.Terminal(token), nil
}

// DeviceByToken returns the device type token logged in from.
func (e *Engine) DeviceByToken(ctx context.Context, token string) (string, error) {
	term, err := e.TerminalByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if term == nil {
		return "", nil
	}
	return term.DeviceType, nil
}

// SearchTokens pages through the reverse-index keys whose token value
// contains keyword. It returns full storage keys in sorted order; start
// and size page the sorted list, size < 0 meaning "to the end".
func (e *Engine) SearchTokens(ctx context.Context, keyword string, start, size int, sortAsc bool) ([]string, error) {
	prefix := e.cfg.TokenName + ":login:token:"
	return e.store.Search(ctx, prefix, keyword, start, size, sortAsc)
}

// SearchSessions pages through the account-session keys of this engine's
// login type whose identity contains keyword.
func (e *Engine) SearchSessions(ctx context.Context, keyword string, start, size int, sortAsc bool) ([]string, error) {
	prefix := e.cfg.TokenName + ":login:session:" + e.loginType + ":"
	return e.store.Search(ctx, prefix, keyword, start, size, sortAsc)
}
