package texatlas

import "log/slog"

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBaseJar supplies the base-engine archive. It is consulted after
// every mod archive, so mods always override its assets. A missing or
// unreadable base jar is skipped without error.
func WithBaseJar(path string) Option {
	return func(p *Pipeline) {
		p.baseJar = path
	}
}

// WithLooseTree adds an unpacked asset tree scanned after the mod
// archives. May be given multiple times; trees are scanned in the order
// added.
func WithLooseTree(root string) Option {
	return func(p *Pipeline) {
		p.loose = append(p.loose, root)
	}
}

// WithLogger sets the logger used for progress and skip reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}
