package ebml

import "go.uber.org/zap"

const defaultBufferSize = 4096

type options struct {
	logger     *zap.Logger
	registry   *Registry
	format     string
	bufferSize int
	docType    string
}

// Option configures a Reader or a Writer.
type Option func(*options)

// WithLogger sets the logger for warnings about skipped elements and objects.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegistry sets the type registry used by ReadObject and WriteObject.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithFormat selects the format tag under which formatters are looked up.
// The default is FormatTag.
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// WithBufferSize sets the size of the stream buffer.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = n }
}

// WithDocType makes NewReader fail with ErrDocTypeMismatch unless the stream's
// doctype equals docType. It has no effect on writers.
func WithDocType(docType string) Option {
	return func(o *options) { o.docType = docType }
}

func buildOptions(opts []Option) options {
	o := options{format: FormatTag, bufferSize: defaultBufferSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	if o.bufferSize < 16 {
		o.bufferSize = 16
	}
	return o
}
