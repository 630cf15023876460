package sink

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/matzehuels/dayview/pkg/errors"
)

const (
	defaultPNGTimeout = 30 * time.Second
	pngMargin         = 32
)

// PNG captures the HTML page in headless Chromium.
type PNG struct {
	cfg  config
	html *HTML
}

// NewPNG returns a PNG sink.
func NewPNG(opts ...Option) *PNG {
	c := newConfig(opts...)
	return &PNG{cfg: c, html: &HTML{cfg: c}}
}

// Render implements [Renderer].
func (p *PNG) Render(ctx context.Context, v View) ([]byte, error) {
	v, err := prepare(v)
	if err != nil {
		return nil, err
	}
	page, err := p.html.Render(ctx, v)
	if err != nil {
		return nil, err
	}

	width := round(v.Options.Width) + axisGutter + 2*pngMargin
	height := round(v.Options.Height) + 2*pngMargin
	if p.cfg.heading(v) != "" {
		height += 40
	}

	allocCtx, cancelAlloc := p.allocator(ctx)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, p.cfg.timeout)
	defer cancelRun()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(dataURL(page)),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	}
	if err := chromedp.Run(runCtx, tasks); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "capture png after %s", p.cfg.timeout)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "capture png")
	}
	return png, nil
}

func (p *PNG) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.browser == "" {
		return ctx, func() {}
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.ExecPath(p.cfg.browser))
	return chromedp.NewExecAllocator(ctx, opts...)
}

func dataURL(page []byte) string {
	return fmt.Sprintf("data:text/html;base64,%s", base64.StdEncoding.EncodeToString(page))
}
