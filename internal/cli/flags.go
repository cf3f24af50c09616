package cli

import (
	"fmt"
	"strings"

	"blocktree/internal/model"

	"github.com/spf13/cobra"
)

// payloadFlags collects the opaque JSON documents a block carries.
type payloadFlags struct {
	content string
	style   string
	config  string
	text    string
}

func (p *payloadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.content, "content", "", "Content payload (JSON object)")
	cmd.Flags().StringVar(&p.style, "style", "", "Style payload (JSON object)")
	cmd.Flags().StringVar(&p.config, "block-config", "", "Config payload (JSON object)")
	cmd.Flags().StringVar(&p.text, "text", "", "Shortcut for content.text")
}

// parse decodes the payload flags. A payload whose flag was not given is nil.
func (p *payloadFlags) parse(cmd *cobra.Command) (content, style, cfg *model.Payload, err error) {
	decode := func(flag, raw string) (*model.Payload, error) {
		if !cmd.Flags().Changed(flag) {
			return nil, nil
		}
		v, err := model.ParsePayload(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", flag, err)
		}
		return &v, nil
	}
	if content, err = decode("content", p.content); err != nil {
		return nil, nil, nil, err
	}
	if style, err = decode("style", p.style); err != nil {
		return nil, nil, nil, err
	}
	if cfg, err = decode("block-config", p.config); err != nil {
		return nil, nil, nil, err
	}
	if cmd.Flags().Changed("text") {
		if content == nil {
			content = &model.Payload{}
		}
		(*content)["text"] = p.text
	}
	return content, style, cfg, nil
}

func deref(p *model.Payload) model.Payload {
	if p == nil {
		return nil
	}
	return *p
}
