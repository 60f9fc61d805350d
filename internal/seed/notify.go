package seed

import (
	"context"

	"go.uber.org/zap"
)

// Notifier feeds file notifications from a directory watcher into an Importer.
// Failures are logged and the file is skipped.
type Notifier struct {
	ctx context.Context
	im  *Importer
}

// Notifier returns a watcher handler bound to ctx.
func (im *Importer) Notifier(ctx context.Context) *Notifier {
	return &Notifier{ctx: ctx, im: im}
}

// FileChanged imports path.
func (n *Notifier) FileChanged(path string) {
	if _, err := n.im.ImportFile(n.ctx, path); err != nil {
		n.im.logger.Warn("Failed to import fixture", zap.String("path", path), zap.Error(err))
	}
}

// FileRemoved deletes the recipes imported from path.
func (n *Notifier) FileRemoved(path string) {
	if err := n.im.RemoveFile(n.ctx, path); err != nil {
		n.im.logger.Warn("Failed to remove fixture recipes", zap.String("path", path), zap.Error(err))
	}
}
