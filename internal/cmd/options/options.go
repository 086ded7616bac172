package options

import (
	"fmt"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/config"
)

type CmdOption func(*CmdOptions) error

// CmdOptions holds the dependencies commands are built with.
type CmdOptions struct {
	ConfigLoader      config.Loader
	ConfigInitializer config.Initializer

	// AppOptions are passed through whenever a command wires the application.
	AppOptions []app.Option
}

func defaultOptions() CmdOptions {
	loader := &config.DefaultLoader{}
	return CmdOptions{
		ConfigLoader:      loader,
		ConfigInitializer: loader,
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}

	return opts, nil
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if l == nil {
			return fmt.Errorf("config loader cannot be nil")
		}
		o.ConfigLoader = l
		return nil
	}
}

func WithConfigInitializer(i config.Initializer) CmdOption {
	return func(o *CmdOptions) error {
		if i == nil {
			return fmt.Errorf("config initializer cannot be nil")
		}
		o.ConfigInitializer = i
		return nil
	}
}

// WithAppOptions appends options used when wiring the application.
func WithAppOptions(opts ...app.Option) CmdOption {
	return func(o *CmdOptions) error {
		o.AppOptions = append(o.AppOptions, opts...)
		return nil
	}
}
