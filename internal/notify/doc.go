// Package notify delivers check-in links to guests. Token minting happens
// out-of-band in provisioning; this package only covers the operator-triggered
// "(re)send the guest their link" action.
//
// Production uses Postmark; without a server token configured the dev sender
// logs the message instead of sending it.
package notify
