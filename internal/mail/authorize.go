package mail

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mdp/qrterminal/v3"
	"golang.org/x/oauth2"

	"github.com/nahidhasan98/status-report-assistant/internal/errors"
	"github.com/nahidhasan98/status-report-assistant/internal/logger"
)

// Authorizer obtains a new token for cfg, typically with user interaction
type Authorizer interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// LocalServerFlow runs the installed-app authorization code flow with a
// loopback redirect listener on 127.0.0.1.
type LocalServerFlow struct {
	// Out receives the consent URL and its QR code
	Out io.Writer

	// Timeout bounds the wait for the browser callback
	Timeout time.Duration

	// Notify replaces the default URL announcement when set
	Notify func(authURL string)

	log *logger.Logger
}

// NewLocalServerFlow creates a flow that announces the consent URL on out
func NewLocalServerFlow(out io.Writer, timeout time.Duration, log *logger.Logger) *LocalServerFlow {
	return &LocalServerFlow{Out: out, Timeout: timeout, log: log}
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements Authorizer
func (f *LocalServerFlow) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to open callback listener: %w", err)
	}

	flowCfg := *cfg
	flowCfg.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state := uuid.NewString()
	results := make(chan callbackResult, 1)

	srv := &http.Server{
		Handler:           f.callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			f.log.Error("OAuth callback server error", err)
		}
	}()
	defer srv.Close()

	authURL := flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	f.announce(authURL)
	f.log.Infof("Waiting for Gmail authorization on %s", flowCfg.RedirectURL)

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := flowCfg.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
		}
		return tok, nil
	case <-waitCtx.Done():
		return nil, errors.Wrap(waitCtx.Err(), errors.ErrCodeAuthorizationTimeout, "Timed out waiting for authorization")
	}
}

func (f *LocalServerFlow) callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var res callbackResult
		switch {
		case q.Get("state") != state:
			http.Error(w, "State mismatch", http.StatusBadRequest)
			return
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
			http.Error(w, "Authorization failed. You may close this window.", http.StatusForbidden)
		case q.Get("code") == "":
			res.err = fmt.Errorf("authorization callback carried no code")
			http.Error(w, "Missing authorization code", http.StatusBadRequest)
		default:
			res.code = q.Get("code")
			_, _ = io.WriteString(w, "Authorization complete. You may close this window.\n")
		}

		select {
		case results <- res:
		default:
		}
	})
}

func (f *LocalServerFlow) announce(authURL string) {
	if f.Notify != nil {
		f.Notify(authURL)
		return
	}

	fmt.Fprintf(f.Out, "\nAuthorize Gmail draft access by opening this URL:\n\n%s\n\n", authURL)
	qrterminal.GenerateHalfBlock(authURL, qrterminal.L, f.Out)
}
