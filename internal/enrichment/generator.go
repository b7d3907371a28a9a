package enrichment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/models"
)

// Generation defaults.
const (
	DefaultLoginURL        = "https://lovable.dev/login"
	DefaultChatInputWait   = 30 * time.Second
	DefaultSettleDelay     = 10 * time.Second
	DefaultPreviewInterval = 250 * time.Millisecond
	DefaultPreviewTimeout  = 600 * time.Second
)

const (
	emailSelector     = "#email"
	passwordSelector  = "#password"
	loginButtonXPath  = "//button[normalize-space(.)='Log in']"
	chatInputSelector = "#chatinput"
	promptInputXPath  = "(//textarea)[1]"
	spinnerXPath      = "//span[normalize-space(.)='Spinning up preview...']"
	projectNameXPath  = "//*[@id='main-menu']//p[1]"
)

const landingPagePrompt = `
You are a senior conversion-focused web designer + copywriter. Starting from the website %s, produce one modern, responsive, accessible landing page.
Research: audience, core offer, pains, differentiators, social proof; invent plausible placeholders if missing.
Brand: derive clean style; fix weak colors for accessible palette; modern typography, white space, subtle animation.
Structure (omit if irrelevant): Hero (benefit headline + primary CTA) > Trust logos > Problem > Solution/Benefits (bullets) > Social Proof > Pricing/Offer > FAQ (4-6) > Secondary CTA + contact form > Footer.
Copy: concise, persuasive, second-person, outcome-headed; at least 3 CTA placements.
CTAs: high-contrast (at least 7:1) solid primary + outlined secondary; clear hover.
Tech: mobile-first; optimized images/placeholders; meta title/description; form (name/email/message) with validation.
`

// GeneratorConfig configures a PageGenerator.
type GeneratorConfig struct {
	// DevToolsURL is a browser DevTools websocket. Empty starts a local
	// headless browser.
	DevToolsURL string
	User        string
	Password    string //nolint:gosec // page tool credentials

	LoginURL        string
	ChatInputWait   time.Duration
	SettleDelay     time.Duration
	PreviewInterval time.Duration
	PreviewTimeout  time.Duration
}

func (c *GeneratorConfig) setDefaults() {
	if c.LoginURL == "" {
		c.LoginURL = DefaultLoginURL
	}
	if c.ChatInputWait == 0 {
		c.ChatInputWait = DefaultChatInputWait
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.PreviewInterval == 0 {
		c.PreviewInterval = DefaultPreviewInterval
	}
	if c.PreviewTimeout == 0 {
		c.PreviewTimeout = DefaultPreviewTimeout
	}
}

// PageGenerator drives the page generation tool in a browser.
type PageGenerator struct {
	cfg GeneratorConfig
	log logger.Logger
}

// NewPageGenerator creates a generator.
func NewPageGenerator(cfg GeneratorConfig, log logger.Logger) *PageGenerator {
	cfg.setDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &PageGenerator{cfg: cfg, log: log}
}

// Generate logs in, submits the landing page prompt for address and waits
// for the preview. It returns the project name and URL.
func (g *PageGenerator) Generate(ctx context.Context, address string) (models.GeneratedWebsite, error) {
	allocCtx, cancelAlloc := g.allocator(ctx)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(g.cfg.LoginURL),
		chromedp.SendKeys(emailSelector, g.cfg.User, chromedp.ByID),
		chromedp.SendKeys(passwordSelector, g.cfg.Password, chromedp.ByID),
		chromedp.Click(loginButtonXPath, chromedp.BySearch),
	); err != nil {
		return models.GeneratedWebsite{}, fmt.Errorf("log in: %w", err)
	}

	waitCtx, cancelWait := context.WithTimeout(browserCtx, g.cfg.ChatInputWait)
	err := chromedp.Run(waitCtx, chromedp.WaitVisible(chatInputSelector, chromedp.ByID))
	cancelWait()
	if err != nil {
		return models.GeneratedWebsite{}, fmt.Errorf("wait for chat input: %w", err)
	}

	if err = chromedp.Run(browserCtx,
		chromedp.SendKeys(promptInputXPath, buildPrompt(address)+kb.Enter, chromedp.BySearch),
		chromedp.Sleep(g.cfg.SettleDelay),
	); err != nil {
		return models.GeneratedWebsite{}, fmt.Errorf("submit prompt: %w", err)
	}
	g.log.Debug("Submitted page prompt", logger.String("source_address", address))

	if err = waitUntil(browserCtx, g.cfg.PreviewInterval, g.cfg.PreviewTimeout, spinnerGone); err != nil {
		return models.GeneratedWebsite{}, fmt.Errorf("wait for preview: %w", err)
	}

	var page models.GeneratedWebsite
	if err = chromedp.Run(browserCtx,
		chromedp.Text(projectNameXPath, &page.Name, chromedp.BySearch),
		chromedp.Location(&page.URL),
	); err != nil {
		return models.GeneratedWebsite{}, fmt.Errorf("read project: %w", err)
	}
	page.Name = strings.TrimSpace(page.Name)
	return page, nil
}

func (g *PageGenerator) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg.DevToolsURL != "" {
		return chromedp.NewRemoteAllocator(ctx, g.cfg.DevToolsURL)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	return chromedp.NewExecAllocator(ctx, opts...)
}

// spinnerGone reports whether the preview loading indicator has disappeared.
func spinnerGone(ctx context.Context) (bool, error) {
	var count int
	if err := chromedp.Run(ctx, chromedp.Evaluate(xpathCountJS(spinnerXPath), &count)); err != nil {
		return false, err
	}
	return count == 0, nil
}

func xpathCountJS(xpath string) string {
	return fmt.Sprintf(
		"document.evaluate(%q, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null).snapshotLength",
		xpath,
	)
}

func buildPrompt(address string) string {
	return strings.TrimSpace(strings.ReplaceAll(fmt.Sprintf(landingPagePrompt, address), "\n", " "))
}
