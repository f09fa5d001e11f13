package vkframe

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffer records commands for a queue. Only the commands this package
// needs are wrapped, VK gives access to the native handle for the rest.
type CommandBuffer struct {
	Pool            *CommandPool
	VKCommandBuffer vk.CommandBuffer
}

func (c *CommandBuffer) VK() vk.CommandBuffer {
	return c.VKCommandBuffer
}

// Destroy returns the buffer to its pool.
func (c *CommandBuffer) Destroy() {
	c.Pool.FreeBuffers([]*CommandBuffer{c})
}

func (c *CommandBuffer) Reset() error {
	return errors.Wrap(vk.Error(vk.ResetCommandBuffer(c.VKCommandBuffer, 0)), "reset command buffer")
}

// Begin starts recording a buffer that may be submitted any number of times.
func (c *CommandBuffer) Begin() error {
	return c.begin(0)
}

// BeginOneTime starts recording a buffer that will be submitted once.
func (c *CommandBuffer) BeginOneTime() error {
	return c.begin(vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit))
}

func (c *CommandBuffer) begin(flags vk.CommandBufferUsageFlags) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: flags,
	}
	return errors.Wrap(vk.Error(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo)), "begin command buffer")
}

func (c *CommandBuffer) End() error {
	return errors.Wrap(vk.Error(vk.EndCommandBuffer(c.VKCommandBuffer)), "end command buffer")
}

// ClearColor is the color render passes clear to.
var ClearColor = [4]float32{0, 0, 1, 1}

// CmdBeginRenderPass begins rp on fb, clearing the whole framebuffer.
func (c *CommandBuffer) CmdBeginRenderPass(rp *RenderPass, fb *Framebuffer) {
	clearValues := make([]vk.ClearValue, 1)
	clearValues[0].SetColor(ClearColor[:])

	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  rp.VKRenderPass,
		Framebuffer: fb.VKFramebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: fb.Extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(c.VKCommandBuffer, &beginInfo, vk.SubpassContentsInline)
}

func (c *CommandBuffer) CmdEndRenderPass() {
	vk.CmdEndRenderPass(c.VKCommandBuffer)
}

func (c *CommandBuffer) CmdBindGraphicsPipeline(p *GraphicsPipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointGraphics, p.VKPipeline)
}

// CmdBindVertexBuffer binds b at binding slot 0.
func (c *CommandBuffer) CmdBindVertexBuffer(b *Buffer) {
	vk.CmdBindVertexBuffers(c.VKCommandBuffer, 0, 1, []vk.Buffer{b.VKBuffer}, []vk.DeviceSize{0})
}

func (c *CommandBuffer) CmdDraw(vertexCount, instanceCount int) {
	vk.CmdDraw(c.VKCommandBuffer, uint32(vertexCount), uint32(instanceCount), 0, 0)
}

func (c *CommandBuffer) CmdBindComputePipeline(p *ComputePipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointCompute, p.VKPipeline)
}

func (c *CommandBuffer) CmdBindDescriptorSets(bindPoint vk.PipelineBindPoint, layout *PipelineLayout, firstSet int, descriptorSets ...*DescriptorSet) {
	sets := make([]vk.DescriptorSet, len(descriptorSets))
	for i := range descriptorSets {
		sets[i] = descriptorSets[i].VKDescriptorSet
	}
	vk.CmdBindDescriptorSets(c.VKCommandBuffer, bindPoint, layout.VKPipelineLayout, uint32(firstSet), uint32(len(sets)), sets, 0, nil)
}

func (c *CommandBuffer) CmdDispatch(x, y, z int) {
	vk.CmdDispatch(c.VKCommandBuffer, uint32(x), uint32(y), uint32(z))
}

// RecordDraw records the full draw of vertexCount vertices from vb into fb
// with p. The buffer is left ready for submission.
func (c *CommandBuffer) RecordDraw(rp *RenderPass, fb *Framebuffer, p *GraphicsPipeline, vb *Buffer, vertexCount int) error {
	if err := c.Begin(); err != nil {
		return err
	}
	c.CmdBeginRenderPass(rp, fb)
	c.CmdBindGraphicsPipeline(p)
	c.CmdBindVertexBuffer(vb)
	c.CmdDraw(vertexCount, 1)
	c.CmdEndRenderPass()
	return c.End()
}
