package dispatcher

import (
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/tool"
)

type Option func(*Dispatcher)

func WithModel(m provider.LanguageModel) Option {
	return func(d *Dispatcher) {
		d.Model = m
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(d *Dispatcher) {
		d.SystemPrompt = prompt
	}
}

func WithTemperature(temperature float32) Option {
	return func(d *Dispatcher) {
		d.Temperature = &temperature
	}
}

func WithTools(tools ...tool.Tool) Option {
	return func(d *Dispatcher) {
		d.Tools = append(d.Tools, tools...)
	}
}

func WithHooks(hooks Hooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}
