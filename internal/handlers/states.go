package handlers

import "github.com/m3rciful/pickupbot/core/telegram/state"

// Dialog states, tagged "<flow>:<step>". Each flow is a closed set; the
// dispatcher routes in-progress messages on these tags.
const (
	StateRegName    state.State = "reg:name"
	StateRegPhone   state.State = "reg:phone"
	StateRegAddress state.State = "reg:address"
	StateRegOrg     state.State = "reg:org"

	StateOrderDay     state.State = "order:day"
	StateOrderTime    state.State = "order:time"
	StateOrderConfirm state.State = "order:confirm"

	StateEditChoose  state.State = "edit:choose"
	StateEditPhone   state.State = "edit:phone"
	StateEditAddress state.State = "edit:address"
	StateEditName    state.State = "edit:name"
	StateEditOrg     state.State = "edit:org"

	StateAdminName    state.State = "adm:name"
	StateAdminPhone   state.State = "adm:phone"
	StateAdminAddress state.State = "adm:address"
	StateAdminTime    state.State = "adm:time"

	StateDirectText state.State = "dm:text"
)

// Temp-data keys for values collected mid-dialog.
const (
	tempName       = "name"
	tempPhone      = "phone"
	tempAddress    = "address"
	tempDescriptor = "preferred_time"
)
