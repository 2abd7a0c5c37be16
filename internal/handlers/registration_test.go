package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRegistration(t *testing.T, h *Handlers, userID int64) {
	t.Helper()
	require.NoError(t, h.StartWork(newCallbackContext(userID, cbStartWork)))
	require.NoError(t, h.ManagerHandler(newTextContext(userID, "Иван")))
	require.NoError(t, h.ManagerHandler(newTextContext(userID, "+79991234567")))
	require.NoError(t, h.ManagerHandler(newTextContext(userID, "ул. Ленина, 1")))
	require.NoError(t, h.ManagerHandler(newTextContext(userID, "нет")))
}

func TestRegistrationDialogCommitsOneUser(t *testing.T) {
	h, users, _ := newTestHandlers()

	runRegistration(t, h, 42)

	assert.Equal(t, 1, users.countByTelegramID(42))
	assert.False(t, h.sessions.InProgress(42))
}

func TestStartWorkSkipsRegisteredUser(t *testing.T) {
	h, users, _ := newTestHandlers()
	runRegistration(t, h, 42)

	// A stale start button must not reopen registration.
	c := newCallbackContext(42, cbStartWork)
	require.NoError(t, h.StartWork(c))
	assert.Equal(t, textWelcomeBack, c.lastSent())
	assert.False(t, h.sessions.InProgress(42))

	// Replaying the dialog answers goes to the fallback, not the steps.
	require.NoError(t, h.ManagerHandler(newTextContext(42, "Иван")))
	require.NoError(t, h.ManagerHandler(newTextContext(42, "+79991234567")))
	require.NoError(t, h.ManagerHandler(newTextContext(42, "ул. Ленина, 1")))
	require.NoError(t, h.ManagerHandler(newTextContext(42, "нет")))
	assert.Equal(t, 1, users.countByTelegramID(42))
}

func TestStartWorkInterruptsDialogForRegisteredUser(t *testing.T) {
	h, users, _ := newTestHandlers()
	runRegistration(t, h, 42)

	// Even a half-open dialog is dropped once the user is registered.
	h.sessions.SetState(42, StateRegName)
	require.NoError(t, h.StartWork(newCallbackContext(42, cbStartWork)))
	assert.False(t, h.sessions.InProgress(42))
	assert.Equal(t, 1, users.countByTelegramID(42))
}
