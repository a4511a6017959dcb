package ideamap

import (
	"context"

	domain "devdash-backend/domain/ideamap"
)

const (
	PromptDeleteNode = "Delete this node?"
	PromptDeleteEdge = "Delete this connection?"
	PromptClearAll   = "Delete all nodes and connections?"
)

// AutoConfirm answers every prompt with answer.
func AutoConfirm(answer bool) domain.Confirmer {
	return domain.ConfirmFunc(func(context.Context, string) bool { return answer })
}

func confirmed(ctx context.Context, c domain.Confirmer, prompt string) bool {
	if c == nil {
		return false
	}
	return c.Confirm(ctx, prompt)
}
