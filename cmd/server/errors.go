package main

import "errors"

var errUnexpectedGreeting = errors.New("greeter returned unexpected message")
