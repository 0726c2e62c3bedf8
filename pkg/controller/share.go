package controller

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

type ShareTarget struct {
	ID    string
	Title string
}

type ShareData struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Platform is the host's share and clipboard capabilities.
// Methods return ErrUnsupported when the capability is absent.
type Platform interface {
	Share(ctx context.Context, data ShareData) error
	WriteClipboard(ctx context.Context, text string) error
}

type ShareMethod string

const (
	ShareNative    ShareMethod = "native"
	ShareClipboard ShareMethod = "clipboard"
	// ShareManual means the user was shown the URL to copy by hand.
	ShareManual ShareMethod = "manual"
)

type ShareOutcome struct {
	Method ShareMethod `json:"method"`
	Data   ShareData   `json:"data"`
	// Pending is set when the client still has to make the call and report
	// back through SettleShare.
	Pending bool `json:"pending,omitempty"`
}

// ShareURL returns current with section=id set. Other parameters keep
// their order and encoding.
func ShareURL(current *url.URL, id string) string {
	u := *current
	var parts []string
	for _, kv := range strings.Split(u.RawQuery, "&") {
		if kv == "" {
			continue
		}
		k := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			k = kv[:i]
		}
		if key, err := url.QueryUnescape(k); err == nil && key == "section" {
			continue
		}
		parts = append(parts, kv)
	}
	parts = append(parts, "section="+url.QueryEscape(id))
	u.RawQuery = strings.Join(parts, "&")
	u.ForceQuery = false
	return u.String()
}

// Share tries the native share sheet, then the clipboard, then falls back to
// a toast carrying the URL. It never fails.
//
// A Platform answering ErrDeferred hands the remaining chain to the client,
// and no toast is pushed until SettleShare reports how it ended.
func Share(ctx context.Context, target ShareTarget, current *url.URL, p Platform, toasts *Toasts) ShareOutcome {
	data := ShareData{
		Title: target.Title,
		Text:  "Check out this section: " + target.Title,
		URL:   ShareURL(current, target.ID),
	}

	if p != nil {
		switch err := p.Share(ctx, data); {
		case err == nil:
			return ShareOutcome{Method: ShareNative, Data: data}
		case errors.Is(err, ErrDeferred):
			return ShareOutcome{Method: ShareNative, Data: data, Pending: true}
		}
		switch err := p.WriteClipboard(ctx, data.URL); {
		case err == nil:
			return SettleShare(ShareClipboard, data, toasts)
		case errors.Is(err, ErrDeferred):
			return ShareOutcome{Method: ShareClipboard, Data: data, Pending: true}
		}
	}
	return SettleShare(ShareManual, data, toasts)
}

// SettleShare pushes the toast for the method a share ended with. Unknown
// methods count as manual.
func SettleShare(method ShareMethod, data ShareData, toasts *Toasts) ShareOutcome {
	switch method {
	case ShareNative:
	case ShareClipboard:
		push(toasts, "Copied to clipboard!", ToastSuccess)
	default:
		method = ShareManual
		push(toasts, "Copy this link: "+data.URL, ToastWarning)
	}
	return ShareOutcome{Method: method, Data: data}
}

// CopyCode writes code to the clipboard and reports the result as a toast.
// A deferred clipboard returns true without a toast; the client settles the
// write with SettleCopy.
func CopyCode(ctx context.Context, p Platform, code string, toasts *Toasts) bool {
	if p != nil {
		switch err := p.WriteClipboard(ctx, code); {
		case err == nil:
			return SettleCopy(true, toasts)
		case errors.Is(err, ErrDeferred):
			return true
		}
	}
	return SettleCopy(false, toasts)
}

func SettleCopy(ok bool, toasts *Toasts) bool {
	if ok {
		push(toasts, "Copied to clipboard!", ToastSuccess)
	} else {
		push(toasts, "Failed to copy", ToastError)
	}
	return ok
}

func push(t *Toasts, msg string, level ToastLevel) {
	if t != nil {
		t.Push(msg, level)
	}
}

// Capabilities is a Platform built from what a client reports it can do.
// A supported capability answers ErrDeferred: only the client can make the
// call, and it may still be rejected there.
type Capabilities struct {
	CanShare     bool `json:"share"`
	CanClipboard bool `json:"clipboard"`
}

func (c Capabilities) Share(context.Context, ShareData) error {
	if !c.CanShare {
		return ErrUnsupported
	}
	return ErrDeferred
}

func (c Capabilities) WriteClipboard(context.Context, string) error {
	if !c.CanClipboard {
		return ErrUnsupported
	}
	return ErrDeferred
}
