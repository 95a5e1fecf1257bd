package server

import (
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

const dialTimeout = 2 * time.Second

// serveSCP cannot start anything itself: it prints how to expose the file
// through the local SSH daemon and reports whether one is listening.
func (s *FileServer) serveSCP(cfg Config, log logrus.FieldLogger) error {
	path := ResolvePath(cfg.Directory, cfg.InputFile)

	fmt.Fprintln(s.out, "SCP transfers go through the local SSH server:")
	fmt.Fprintln(s.out, "  1. start it:            service ssh start")
	fmt.Fprintf(s.out, "  2. listen on port %s:   set 'Port %s' in /etc/ssh/sshd_config\n", cfg.Port, cfg.Port)
	fmt.Fprintln(s.out, "  3. allow a login for the target (password or authorized_keys)")
	fmt.Fprintf(s.out, "  4. put the file in that user's home: cp %s ~/\n", path)

	addr := net.JoinHostPort(localHost(cfg.Host), cfg.Port)
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		log.Warnf("Nothing is listening on %s yet", addr)
		return nil
	}
	conn.Close()
	log.Infof("SSH server reachable on %s", addr)
	return nil
}
