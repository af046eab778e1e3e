package bridge

import "context"

// Init is the host integration entry point. It defines the element tag if
// needed, creates an element with cfg assigned and connects it to target.
// It returns nil when the environment cannot host elements or target is not
// attached.
func Init(cfg Config, target Host, opts ...Option) *Element {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.environment.SupportsElements() {
		o.logger.Warn("environment does not support elements")
		return nil
	}
	if target == nil || !target.Attached() {
		o.logger.Warn("init target is not attached")
		return nil
	}

	DefineContainer(o.definitions)
	el, err := o.definitions.Create(TagName, opts...)
	if err != nil {
		o.logger.Error("create element", "error", err)
		return nil
	}
	el.SetConfig(cfg)
	if err := el.Connect(context.Background(), target); err != nil {
		o.logger.Error("connect element", "error", err)
		return nil
	}
	return el
}
