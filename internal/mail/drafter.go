package mail

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/nahidhasan98/status-report-assistant/internal/config"
	"github.com/nahidhasan98/status-report-assistant/internal/errors"
	"github.com/nahidhasan98/status-report-assistant/internal/logger"
	"github.com/nahidhasan98/status-report-assistant/internal/models"
	"github.com/nahidhasan98/status-report-assistant/internal/pathutil"
)

// UserID addresses the authenticated mailbox
const UserID = "me"

// Scopes requested from Google; compose covers draft creation
var Scopes = []string{gmail.GmailComposeScope}

// Drafter saves email drafts in the authenticated Gmail mailbox
type Drafter struct {
	cfg        config.GmailConfig
	homeDir    string
	authorizer Authorizer
	log        *logger.Logger
}

// NewDrafter creates a drafter. Credential paths may start with ~.
func NewDrafter(cfg config.GmailConfig, homeDir string, authorizer Authorizer, log *logger.Logger) *Drafter {
	return &Drafter{
		cfg:        cfg,
		homeDir:    homeDir,
		authorizer: authorizer,
		log:        log,
	}
}

// CreateDraft saves req as a new draft. Every call creates a new draft.
func (d *Drafter) CreateDraft(ctx context.Context, req models.DraftRequest) (*models.DraftResult, error) {
	tok, err := d.Token(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if d.cfg.APIURL != "" {
		opts = append(opts, option.WithEndpoint(d.cfg.APIURL))
	}

	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.MailServiceFailed(err)
	}

	draft := &gmail.Draft{Message: &gmail.Message{Raw: RawMessage(req)}}
	created, err := service.Users.Drafts.Create(UserID, draft).Context(ctx).Do()
	if err != nil {
		return nil, errors.DraftCreateFailed(err)
	}

	result := &models.DraftResult{ID: created.Id}
	if created.Message != nil {
		result.MessageID = created.Message.Id
	}

	d.log.With("draft_id", result.ID).Infof("Draft created for %d recipient(s)", len(req.To))
	return result, nil
}

// Token returns a usable access token, persisting any new one:
//   - no stored token: authorize interactively
//   - stored token expired with a refresh token: refresh it
//   - stored token otherwise unusable: authorize interactively
func (d *Drafter) Token(ctx context.Context) (*oauth2.Token, error) {
	if d.cfg.CredentialsPath == "" {
		return nil, errors.MissingEnvironment(config.GoogleOAuth2Var)
	}
	if d.cfg.TokenPath == "" {
		return nil, errors.MissingEnvironment(config.TokenVar)
	}

	credsPath := pathutil.ExpandHome(d.cfg.CredentialsPath, d.homeDir)
	tokenPath := pathutil.ExpandHome(d.cfg.TokenPath, d.homeDir)

	tok, err := loadToken(tokenPath)
	if err != nil {
		return nil, errors.CredentialsParseFailed(tokenPath, err)
	}

	if tok != nil && tok.Valid() {
		return tok, nil
	}

	oauthCfg, err := d.oauthConfig(credsPath)
	if err != nil {
		return nil, err
	}

	if tok != nil && expired(tok) && tok.RefreshToken != "" {
		d.log.Info("Refreshing expired Gmail token")
		tok, err = oauthCfg.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, errors.TokenAcquireFailed(credsPath, err)
		}
	} else {
		d.log.Info("Requesting Gmail authorization")
		tok, err = d.authorize(ctx, oauthCfg, credsPath)
		if err != nil {
			return nil, err
		}
	}

	if err := saveToken(tokenPath, tok); err != nil {
		return nil, errors.TokenPersistFailed(tokenPath, err)
	}
	return tok, nil
}

func (d *Drafter) authorize(ctx context.Context, oauthCfg *oauth2.Config, credsPath string) (*oauth2.Token, error) {
	if d.authorizer == nil {
		return nil, errors.TokenAcquireFailed(credsPath, stderrors.New("interactive authorization unavailable"))
	}

	tok, err := d.authorizer.Authorize(ctx, oauthCfg)
	if err != nil {
		return nil, errors.TokenAcquireFailed(credsPath, err)
	}
	return tok, nil
}

// oauthConfig reads the OAuth2 client secrets downloaded from Google Cloud
func (d *Drafter) oauthConfig(path string) (*oauth2.Config, error) {
	b, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.MissingCredentials(path)
	}
	if err != nil {
		return nil, errors.CredentialsParseFailed(path, err)
	}

	cfg, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, errors.CredentialsParseFailed(path, err)
	}
	return cfg, nil
}
