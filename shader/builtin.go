package shader

// DefaultImage is the mainImage snippet shown when no fragment source is given.
const DefaultImage = `
float segment(vec2 p, vec2 a, vec2 b) {
    p -= a;
    b -= a;
    return length(p - b * clamp(dot(p, b) / dot(b, b), 0., 1.));
}

#define rot(a) mat2(cos(a+vec4(0,1.57,-1.57,0)))

float t;
vec2 T(vec3 p) {
    p.xy *= rot(-t);
    p.xz *= rot(.785);
    p.yz *= rot(-.625);
    return p.xy;
}

void mainImage(out vec4 O, vec2 u) {
    vec2 R = iResolution.xy, X,
    U = 10. * u / R.y,
    M = vec2(2,2.3),
    I = floor(U/M)*M, J;
    U = mod(U, M);
    O *= 0.;
    for (int k=0; k<4; k++) {
        X = vec2(k%2,k/2)*M;
        J = I+X;
        if (int(J/M)%2 > 0) X.y += 1.15;
        t = tanh(-.2*(J.x+J.y) + mod(2.*iTime,10.) -1.6)*.785;
        for (float a=0.; a < 6.; a += 1.57) {
            vec3 A = vec3(cos(a),sin(a),.7),
            B = vec3(-A.y,A.x,.7);
            #define L(A,B) O += smoothstep(15./R.y, 0., segment(U-X, T(A), T(B)))
            L(A,B);
            L(A,A*vec3(1,1,-1));
            A.z=-A.z; B.z=-B.z; L(A,B);
        }
    }
}
`

// GradientVertex and GradientFragment form a plain (non ShaderToy) program
// that colours the quad by its texture coordinate.
const GradientVertex = `#version 330 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec2 texCoord;
out vec2 pos;
void main() {
    pos = texCoord;
    gl_Position = vec4(position, 1.0);
}
`

const GradientFragment = `#version 330 core
in vec2 pos;
out vec4 fragColor;
void main() {
    fragColor = vec4(pos.x, pos.y, 0.5, 1.0);
}
`
