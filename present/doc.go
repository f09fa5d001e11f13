/*
Package present keeps a window's swapchain and its dependent resources alive
across resizes and drives a frame loop with a single frame in flight.

The package never calls Vulkan directly. Resources are built through a Factory
and frames are acquired and submitted through a Presenter, so the lifecycle can
be exercised without a display. The vkframe package provides the Vulkan
implementations.

Lifecycle

	Live --resize or out-of-date/suboptimal--> Invalidated
	Invalidated --Recreate--> Recreating --> Live
	Recreating --extent rejected--> Invalidated (retried next iteration)

Each successful Recreate produces a new Generation holding the swapchain,
framebuffers, pipeline and command buffers. The previous generation is
destroyed when the new one is swapped in, which is safe because the Loop waits
on every submission before starting the next iteration.

Per iteration the Loop drains events, recreates the swapchain if a resize is
pending or the swapchain went stale, acquires an image, submits the command
buffer recorded for that image, presents it and waits for the GPU.
*/
package present
