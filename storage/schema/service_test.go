package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceListProviders(t *testing.T) {
	service := New(NewStaticClient(), nil)

	output := service.ListProviders(context.Background(), &ListProvidersInput{Schema: "s3", ShortList: true})
	assert.EqualValues(t, "ok", output.Status)
	assert.True(t, output.Required)
	assert.True(t, output.HasShortList, "s3 carries a curated provider shortlist")

	output = service.ListProviders(context.Background(), &ListProvidersInput{Schema: "webdav"})
	assert.EqualValues(t, "ok", output.Status)
	assert.False(t, output.Required)
	assert.False(t, output.HasShortList)
}
