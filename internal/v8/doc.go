/*
Package v8 provides a V8-shaped embedding API whose scripts run on goja.

# Overview

Hosts written against the V8 object model (Isolate, Context, Value, Object,
TryCatch, templates, accessor callbacks) can drive the goja engine through
this package. Each Context owns one engine; an Isolate groups contexts and
holds the exception state shared by them.

# Handles

A *Value is a (context, engine value) pair. Primitive values cross contexts
freely. Objects can only be used in the context that produced them; using
one elsewhere raises a TypeError through the exception bridge.

# Results

Operations that can fail return Maybe[T]. A Nothing result always comes with
exactly one exception, delivered to the innermost open TryCatch or, when
none is open, to the isolate's pending slot.

# Instance metadata

Identity hashes, internal fields, private properties and template links have
no counterpart in goja. They live in a side table attached to the engine
object through its private-data slot and are released when the object is
collected or its context is disposed.

# Threading

An Isolate and everything reached from it must be used from one goroutine
at a time. IsolatePool hands isolates out for exclusive use.
*/
package v8
