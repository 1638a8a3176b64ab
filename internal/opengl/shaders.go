package opengl

// Sector shader: per-vertex colour, transformed by the uniform block.
// The block is std140; each mat4 is uploaded in our row-vector layout, which
// GLSL reads as the transpose, so the product runs right to left.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inColor;

layout(std140) uniform Uniforms {
    mat4 projection;
    mat4 view;
    mat4 model;
};

out vec3 fragColor;

void main() {
    gl_Position = projection * view * model * vec4(inPosition, 1.0);
    fragColor   = inColor;
}
` + "\x00"

const fragSrc = `
#version 410 core
in vec3 fragColor;

out vec4 outColor;

void main() {
    outColor = vec4(fragColor, 1.0);
}
` + "\x00"

const uniformBlockName = "Uniforms\x00"
