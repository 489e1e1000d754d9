// Command netdebug is a network interface debugger built on asyncnet. It
// connects to a framed TCP or UDP peer, sends typed lines and prints every
// admitted inbound message with its arrival time.
package main

func main() {
	Execute()
}
