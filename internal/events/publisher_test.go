package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pissaia92/assetforge-plataform/pkg/logger"
)

func TestPublishCheckoutRejectsIncompleteData(t *testing.T) {
	p := &Publisher{log: logger.New("test", "error")}

	err := p.PublishCheckout(context.Background(), 0, "E1")
	assert.Error(t, err)

	err = p.PublishCheckout(context.Background(), 42, "")
	assert.Error(t, err)
}
