// Package connection provides the respd-cli client side of a RESP
// connection.
//
// Client sends one command at a time and reads its reply. Manager holds the
// current Client for the interactive shell, where the user may switch
// servers without restarting.
package connection
