package app

import (
	"testing"

	"cpghub_cleanup/internal/domain/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRemovalNotice(t *testing.T) {
	user := &profile.UserProfile{UserID: "u1", FullName: strPtr("Dana Diaz"), Email: strPtr("dana@example.com")}

	msg, err := buildRemovalNotice("from@example.com", user, "Brand Manager")
	require.NoError(t, err)

	assert.Equal(t, "from@example.com", msg.From)
	assert.Equal(t, []string{"dana@example.com"}, msg.To)
	assert.Equal(t, "Your job post has been removed.", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Dana Diaz,")
	assert.Contains(t, msg.HTML, "<strong>Brand Manager</strong>")
}

func TestBuildRemovalNoticeFallsBackToThere(t *testing.T) {
	user := &profile.UserProfile{UserID: "u1", Email: strPtr("dana@example.com")}

	msg, err := buildRemovalNotice("from@example.com", user, "Sales Lead")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Hi there,")
}

func TestBuildRemovalNoticeEscapesUserInput(t *testing.T) {
	user := &profile.UserProfile{UserID: "u1", FullName: strPtr("<b>Eve</b>"), Email: strPtr("eve@example.com")}

	msg, err := buildRemovalNotice("from@example.com", user, `<script>alert("x")</script>`)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Eve&lt;/b&gt;")
}
