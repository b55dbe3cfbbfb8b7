/*
Package sender provides a client that sends measurements to a Zabbix-style server
using the "ZBXD" framed JSON protocol.

Measurements are buffered with Add and shipped with Send. Each Send opens a fresh
TCP connection, writes one "sender data" frame, reads the reply until the server
closes the connection and checks that the server reported success.

The buffer is not cleared by Send. Calling Send twice without Clear in between
transmits the same measurements twice.

# Example

The following would send a single value to a server listening on the default
trapper port 10051:

	s, err := sender.New(sender.Config{Host: "zabbix.example.com"})
	if err != nil {
		return err
	}
	s.Add("web-01", "app.requests", 42)
	ok, err := s.Send(context.Background())
	s.Clear()

Errors are one of *ConnectionError, *SendError, *FormatError or *SendFailure and
can be told apart with errors.As.

Influx line protocol can be fed in with ParseLines or AddMetric; every field
becomes one measurement keyed "<name>.<field>[<tag values>]".
*/
package sender
