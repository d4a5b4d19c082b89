/*
Package engine adapts the goja JavaScript engine to the primitive surface the
embedding layer is written against.

# Overview

The embedding API in package v8 never touches goja directly. It consumes the
small set of primitives an engine C API would offer:

  - value classification and object creation
  - string-keyed property get, set, has and delete
  - prototype access
  - snippet evaluation with positional arguments (_1, _2, ...)
  - a private-data slot on objects
  - reference protect/unprotect

# Snippets

Exec evaluates a function body with its arguments bound positionally:

	ret, err := eng.Exec("return _2 in _1", obj, key)

The body is compiled once per arity and cached. Arguments are never
concatenated into source text. Bodies reach built-ins through $i, a frozen
set of intrinsics captured when the engine starts, so script that replaces
Object.is, Object.defineProperty or WeakMap does not change their result:

	ret, err := eng.Exec("return $i.is(_1[_2], _3)", obj, key, value)

# Private data

SetPrivate attaches Go data to an object without keeping the object alive.
When goja drops the object the entry is queued by a runtime cleanup and its
reclaim callback runs on the owning goroutine at the next engine access.

# Threading

An Engine belongs to the goroutine that uses it. Only the reclaim queue and
the interrupt watcher in Run touch it from other goroutines.
*/
package engine
