package goasync

import (
	"errors"
	"net"

	"golang.org/x/sys/unix"
)

const listenBacklog = 1024

// TcpListener is a non-blocking TCP listening socket registered with a
// Reactor for Readable readiness.
type TcpListener struct {
	src  *source
	addr *net.TCPAddr
}

// BindTCP binds a non-blocking TCP listener to addr, registering it with
// rt's reactor.
func BindTCP(rt *Runtime, addr string) (*TcpListener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	if tcpAddr.IP == nil {
		tcpAddr.IP = net.IPv4zero
	}

	domain := unix.AF_INET
	ip4 := tcpAddr.IP.To4()
	if ip4 == nil {
		domain = unix.AF_INET6
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return nil, &IOError{Op: "socket", Err: err}
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, &IOError{Op: "setsockopt", Err: err}
	}

	sa, err := tcpAddrToSockaddr(domain, tcpAddr, ip4)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, &IOError{Op: "bind", Err: err}
	}
	if err := unix.Listen(fd, listenBacklog); err != nil {
		unix.Close(fd)
		return nil, &IOError{Op: "listen", Err: err}
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, &IOError{Op: "set_nonblock", Err: err}
	}

	localSA, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, &IOError{Op: "getsockname", Err: err}
	}

	src, err := rt.reactor.register(fd, Readable)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &TcpListener{src: src, addr: sockaddrToTCPAddr(localSA)}, nil
}

// Addr returns the address the listener is bound to (useful after binding
// to port 0, to discover the kernel-assigned port).
func (l *TcpListener) Addr() net.Addr { return l.addr }

// Close deregisters and closes the listening socket.
func (l *TcpListener) Close() error {
	fd := l.src.fd
	if err := l.src.Close(); err != nil {
		return err
	}
	return unix.Close(fd)
}

// Accept returns the accept stream: call AwaitAccept in a loop to receive
// incoming connections.
func (l *TcpListener) Accept() *Accept { return &Accept{src: l.src} }

// Accept is the stream of incoming connections yielded by
// TcpListener.Accept.
type Accept struct {
	src *source
}

type acceptResult struct {
	conn *TcpStream
	addr net.Addr
}

func (a *Accept) tryAccept() (acceptResult, error) {
	nfd, sa, err := unix.Accept(a.src.fd)
	if err != nil {
		return acceptResult{}, err
	}
	if err := unix.SetNonblock(nfd, true); err != nil {
		unix.Close(nfd)
		return acceptResult{}, err
	}
	stream, err := newTCPStream(a.src.reactor, nfd)
	if err != nil {
		unix.Close(nfd)
		return acceptResult{}, err
	}
	return acceptResult{conn: stream, addr: sockaddrToTCPAddr(sa)}, nil
}

// AwaitAccept suspends the calling fiber until a's listener accepts a
// connection, or a non-WouldBlock error occurs on the listening socket.
func AwaitAccept(ctx *PollCtx, a *Accept) (*TcpStream, net.Addr, error) {
	for {
		res, ready, err := pollSource(a.src, dirRead, ctx.Waker(), a.tryAccept)
		if ready {
			return res.conn, res.addr, err
		}
		ctx.yield()
	}
}

// TcpStream is a non-blocking, connected TCP socket registered with a
// Reactor for both Readable and Writable readiness.
type TcpStream struct {
	src *source
}

func newTCPStream(r *Reactor, fd int) (*TcpStream, error) {
	src, err := r.register(fd, Readable|Writable)
	if err != nil {
		return nil, err
	}
	return &TcpStream{src: src}, nil
}

func (s *TcpStream) tryRead(buf []byte) (int, error)  { return unix.Read(s.src.fd, buf) }
func (s *TcpStream) tryWrite(buf []byte) (int, error) { return unix.Write(s.src.fd, buf) }

type ioResult struct {
	n   int
	err error
}

// ReadFuture is the Awaitable form of a read: wrap it with Await, or use
// AwaitRead for the ergonomic (n, error) form.
func (s *TcpStream) ReadFuture(buf []byte) Awaitable[ioResult] {
	return func(ctx *PollCtx) (ioResult, bool) {
		n, ready, err := pollSource(s.src, dirRead, ctx.Waker(), func() (int, error) { return s.tryRead(buf) })
		if !ready {
			return ioResult{}, false
		}
		return ioResult{n: n, err: err}, true
	}
}

// WriteFuture is the Awaitable form of a write; see ReadFuture.
func (s *TcpStream) WriteFuture(buf []byte) Awaitable[ioResult] {
	return func(ctx *PollCtx) (ioResult, bool) {
		n, ready, err := pollSource(s.src, dirWrite, ctx.Waker(), func() (int, error) { return s.tryWrite(buf) })
		if !ready {
			return ioResult{}, false
		}
		return ioResult{n: n, err: err}, true
	}
}

// AwaitRead suspends until buf has been read into (or the stream errors).
func AwaitRead(ctx *PollCtx, s *TcpStream, buf []byte) (int, error) {
	r := Await(ctx, s.ReadFuture(buf))
	return r.n, r.err
}

// AwaitWrite suspends until buf has been written (or the stream errors).
func AwaitWrite(ctx *PollCtx, s *TcpStream, buf []byte) (int, error) {
	r := Await(ctx, s.WriteFuture(buf))
	return r.n, r.err
}

// Flush is a no-op: every write already goes straight to the OS socket
// buffer, matching spec.md §4.4's flush semantics for this transport.
func (s *TcpStream) Flush() error { return nil }

// Close shuts down both directions and closes the socket.
func (s *TcpStream) Close() error {
	if err := unix.Shutdown(s.src.fd, unix.SHUT_RDWR); err != nil && !errors.Is(err, unix.ENOTCONN) {
		return &IOError{Op: "shutdown", Err: err}
	}
	fd := s.src.fd
	if err := s.src.Close(); err != nil {
		return err
	}
	return unix.Close(fd)
}

func tcpAddrToSockaddr(domain int, addr *net.TCPAddr, ip4 net.IP) (unix.Sockaddr, error) {
	if domain == unix.AF_INET {
		sa := &unix.SockaddrInet4{Port: addr.Port}
		copy(sa.Addr[:], ip4)
		return sa, nil
	}
	ip16 := addr.IP.To16()
	if ip16 == nil {
		return nil, errors.New("goasync: invalid IPv6 address")
	}
	sa := &unix.SockaddrInet6{Port: addr.Port}
	copy(sa.Addr[:], ip16)
	return sa, nil
}

func sockaddrToTCPAddr(sa unix.Sockaddr) *net.TCPAddr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		ip := make(net.IP, 4)
		copy(ip, a.Addr[:])
		return &net.TCPAddr{IP: ip, Port: a.Port}
	case *unix.SockaddrInet6:
		ip := make(net.IP, 16)
		copy(ip, a.Addr[:])
		return &net.TCPAddr{IP: ip, Port: a.Port}
	default:
		return &net.TCPAddr{}
	}
}
